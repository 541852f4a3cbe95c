package route

import (
	"github.com/SeakMengs/CadetTrack/internal/controller"
	"github.com/SeakMengs/CadetTrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts every v1 group under r.
func Register(r *gin.RouterGroup, c *controller.Controller, m *middleware.Middleware) {
	V1_Auth(r, c.Auth)
	V1_Me(r, c.User, m)
	V1_Cadets(r, c.User, m)
	V1_Projects(r, c.Project, m)
	V1_Tasks(r, c.Task, m)
	V1_Files(r, c.File, m)
}
