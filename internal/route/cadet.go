package route

import (
	"github.com/SeakMengs/CadetTrack/internal/controller"
	"github.com/SeakMengs/CadetTrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Cadets(r *gin.RouterGroup, userController *controller.UserController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/cadets")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", userController.ListCadets)
		v1.POST("", userController.CreateCadet)
	}
}
