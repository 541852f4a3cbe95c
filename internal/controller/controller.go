package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	appcontext "github.com/SeakMengs/CadetTrack/internal/app_context"
	"github.com/SeakMengs/CadetTrack/internal/auth"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Auth    *AuthController
	User    *UserController
	Project *ProjectController
	Task    *TaskController
	File    *FileController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Auth:    &AuthController{baseController: bc},
		User:    &UserController{baseController: bc},
		Project: &ProjectController{baseController: bc},
		Task:    &TaskController{baseController: bc},
		File:    &FileController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}

	if payload, ok := user.(auth.JWTPayload); ok {
		return &payload, nil
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}

// getPrincipal writes the 401 itself; callers just return when ok is false.
func (b *baseController) getPrincipal(ctx *gin.Context) (service.Principal, bool) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		b.app.Logger.Errorw("Failed to read auth user", "error", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return service.Principal{}, false
	}

	return service.Principal{ID: user.ID, Role: user.Role}, true
}

func statusForError(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindRoleViolation:
		return http.StatusUnprocessableEntity
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalidTransition:
		return http.StatusConflict
	case service.KindUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case service.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (b *baseController) responseError(ctx *gin.Context, message string, err error) {
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		b.app.Logger.Errorw(message, "path", ctx.FullPath(), "error", err)
	} else {
		b.app.Logger.Debugf("%s: %v", message, err)
	}

	util.ResponseFailed(ctx, code, message, util.GenerateErrorMessages(err), nil)
}

func (b *baseController) responseBindError(ctx *gin.Context, err error) {
	b.app.Logger.Debugf("Invalid request: %v", err)
	util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
}
