package route

import (
	"github.com/SeakMengs/CadetTrack/internal/controller"
	"github.com/SeakMengs/CadetTrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Files(r *gin.RouterGroup, fc *controller.FileController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/files")
	v1.Use(middleware.LinkAuthMiddleware)
	{
		v1.GET("/:fileId/download", fc.DownloadFile)
	}
}
