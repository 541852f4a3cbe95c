package controller

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/CadetTrack/internal/auth"
	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

func toJWTPayload(user *model.User) auth.JWTPayload {
	return auth.JWTPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

func (ac AuthController) issueTokens(ctx *gin.Context, user *model.User, status int) {
	refreshToken, accessToken, err := ac.app.JWTService.GenerateRefreshAndAccessToken(toJWTPayload(user))
	if err != nil {
		ac.app.Logger.Errorw("Failed to generate tokens", "userId", user.ID, "error", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to generate tokens", util.GenerateErrorMessages(err), nil)
		return
	}

	data := gin.H{
		"user":         user,
		"refreshToken": refreshToken,
		"accessToken":  accessToken,
	}
	if status == http.StatusCreated {
		util.ResponseCreated(ctx, data)
		return
	}
	util.ResponseSuccess(ctx, data)
}

// Login takes an optional role which, when given, must match the account.
func (ac AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string            `json:"email" form:"email" binding:"required,strNotEmpty"`
		Password string            `json:"password" form:"password" binding:"required"`
		Role     constant.UserRole `json:"role" form:"role" binding:"omitempty,oneof=curator cadet"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ac.responseBindError(ctx, err)
		return
	}

	user, err := ac.app.Service.User.Authenticate(ctx, body.Email, body.Password, body.Role)
	if err != nil {
		ac.responseError(ctx, "Login failed", err)
		return
	}

	ac.issueTokens(ctx, user, http.StatusOK)
}

// Register is the public sign up, which only creates curators.
func (ac AuthController) Register(ctx *gin.Context) {
	type Request struct {
		FirstName  string `json:"firstName" form:"firstName" binding:"required,strNotEmpty,cmax=50"`
		LastName   string `json:"lastName" form:"lastName" binding:"required,strNotEmpty,cmax=50"`
		Patronymic string `json:"patronymic" form:"patronymic" binding:"omitempty,cmax=50"`
		Email      string `json:"email" form:"email" binding:"required,email"`
		Password   string `json:"password" form:"password" binding:"required,min=6,max=72"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ac.responseBindError(ctx, err)
		return
	}

	user, err := ac.app.Service.User.RegisterCurator(ctx, service.RegisterParams{
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Patronymic: body.Patronymic,
		Email:      body.Email,
		Password:   body.Password,
	})
	if err != nil {
		ac.responseError(ctx, "Failed to register", err)
		return
	}

	ac.issueTokens(ctx, user, http.StatusCreated)
}

func (ac AuthController) RefreshAccessToken(ctx *gin.Context) {
	refreshToken, err := util.ReadRefreshToken(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	jwtClaims, err := ac.app.JWTService.VerifyJwtToken(refreshToken, constant.JWT_TYPE_REFRESH)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	// Reload so a refreshed token carries the current name and role.
	user, err := ac.app.Service.User.GetUserById(ctx, jwtClaims.User.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
			return
		}
		ac.responseError(ctx, "Failed to refresh token", err)
		return
	}

	ac.issueTokens(ctx, user, http.StatusOK)
}
