package controller

import (
	"mime"
	"net/http"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/gin-gonic/gin"
)

type FileController struct {
	*baseController
}

// DownloadFile streams the blob under the advisory download name. Links may
// carry the access token as ?token= since browsers cannot set headers there.
func (fc FileController) DownloadFile(ctx *gin.Context) {
	principal, ok := fc.getPrincipal(ctx)
	if !ok {
		return
	}

	download, rc, err := fc.app.Service.File.OpenFile(ctx, principal, ctx.Param("fileId"))
	if err != nil {
		fc.responseError(ctx, "Failed to download file", err)
		return
	}
	defer rc.Close()

	contentType := download.File.MimeType
	if contentType == "" {
		contentType = constant.DefaultMimeType
	}

	ctx.DataFromReader(http.StatusOK, download.File.Size, contentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": download.DisplayName}),
	})
}
