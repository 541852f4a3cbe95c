package route

import (
	"github.com/SeakMengs/CadetTrack/internal/controller"
	"github.com/SeakMengs/CadetTrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Tasks(r *gin.RouterGroup, tc *controller.TaskController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/tasks")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", tc.ListTasks)
		v1.POST("", tc.CreateTask)
		v1.GET("/export", tc.ExportTasks)
		v1.GET("/:taskId", tc.GetTaskById)
		v1.POST("/:taskId/approve", tc.ApproveTask)
		v1.POST("/:taskId/reject", tc.RejectTask)
		v1.GET("/:taskId/files", tc.ListTaskFiles)
		v1.POST("/:taskId/files", tc.UploadTaskFile)
	}
}
