package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAccessLoggerMasksToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var out bytes.Buffer
	r := gin.New()
	r.Use(AccessLogger(&out))
	r.GET("/download", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/download?token=secret-jwt", nil))

	line := out.String()
	if strings.Contains(line, "secret-jwt") {
		t.Errorf("log line leaks the token: %q", line)
	}
	if !strings.Contains(line, "/download?token=REDACTED") {
		t.Errorf("log line = %q, want masked path", line)
	}
}
