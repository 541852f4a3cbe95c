package controller

import (
	"net/http"
	"strings"

	"github.com/SeakMengs/CadetTrack/internal/auth"
	"github.com/SeakMengs/CadetTrack/internal/mailer"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*baseController
}

func (uc UserController) GetMe(ctx *gin.Context) {
	principal, ok := uc.getPrincipal(ctx)
	if !ok {
		return
	}

	user, err := uc.app.Service.User.GetUserById(ctx, principal.ID)
	if err != nil {
		uc.responseError(ctx, "Failed to get user", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": user,
	})
}

// ListCadets accepts ?search= and ?group=; group "none" selects cadets without a group.
func (uc UserController) ListCadets(ctx *gin.Context) {
	principal, ok := uc.getPrincipal(ctx)
	if !ok {
		return
	}

	cadets, err := uc.app.Service.User.ListCadets(ctx, principal, service.CadetFilter{
		Search: ctx.Query("search"),
		Group:  ctx.Query("group"),
	})
	if err != nil {
		uc.responseError(ctx, "Failed to list cadets", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"cadets": cadets,
		"total":  len(cadets),
	})
}

func (uc UserController) CreateCadet(ctx *gin.Context) {
	type Request struct {
		FirstName     string `json:"firstName" form:"firstName" binding:"required,strNotEmpty,cmax=50"`
		LastName      string `json:"lastName" form:"lastName" binding:"required,strNotEmpty,cmax=50"`
		Patronymic    string `json:"patronymic" form:"patronymic" binding:"omitempty,cmax=50"`
		Email         string `json:"email" form:"email" binding:"required,email"`
		Password      string `json:"password" form:"password" binding:"required,min=6,max=72"`
		AcademicGroup string `json:"academicGroup" form:"academicGroup" binding:"required,cmin=2,cmax=50"`
	}
	var body Request

	curator, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.app.Logger.Errorw("Failed to read auth user", "error", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}
	principal := service.Principal{ID: curator.ID, Role: curator.Role}

	if err := ctx.ShouldBind(&body); err != nil {
		uc.responseBindError(ctx, err)
		return
	}

	cadet, err := uc.app.Service.User.RegisterCadet(ctx, principal, service.RegisterParams{
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Patronymic:    body.Patronymic,
		Email:         body.Email,
		Password:      body.Password,
		AcademicGroup: body.AcademicGroup,
	})
	if err != nil {
		uc.responseError(ctx, "Failed to create cadet", err)
		return
	}

	uc.sendCadetAccountMail(*curator, *cadet)

	util.ResponseCreated(ctx, gin.H{
		"cadet": cadet,
	})
}

// sendCadetAccountMail runs in the background; a failed mail does not undo the account.
func (uc UserController) sendCadetAccountMail(curator auth.JWTPayload, cadet model.User) {
	if uc.app.Mailer == nil {
		return
	}

	data := mailer.CadetAccount{
		AppName:       util.GetAppName(),
		CadetName:     cadet.FullName(),
		CuratorName:   strings.TrimSpace(curator.LastName + " " + curator.FirstName),
		Email:         cadet.Email,
		AcademicGroup: cadet.AcademicGroup,
	}

	go func() {
		if _, err := uc.app.Mailer.Send(mailer.CADET_ACCOUNT_TEMPLATE, cadet.FullName(), cadet.Email, data); err != nil {
			uc.app.Logger.Errorw("Failed to send cadet account mail", "cadetId", cadet.ID, "error", err)
		}
	}()
}
