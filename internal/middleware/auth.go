package middleware

import (
	"net/http"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware only accepts the Authorization header.
func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	m.authenticate(ctx, util.ReadBearerToken)
}

// LinkAuthMiddleware also accepts the "token" query parameter, for download
// links opened straight from the browser.
func (m Middleware) LinkAuthMiddleware(ctx *gin.Context) {
	m.authenticate(ctx, util.ReadLinkToken)
}

func (m Middleware) authenticate(ctx *gin.Context, readToken func(*gin.Context) (string, error)) {
	token, err := readToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	claim, err := m.app.JWTService.VerifyJwtToken(token, constant.JWT_TYPE_ACCESS)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	ctx.Set("user", claim.User)
	ctx.Next()
}
