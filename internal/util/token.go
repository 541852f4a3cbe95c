package util

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Read Authorization header from the request and return the token type and token
func ReadAuthorizationHeader(ctx *gin.Context) (string, string, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", "", errors.New("no authorization header specified")
	}

	headerParts := strings.SplitN(header, " ", 2)
	if len(headerParts) != 2 {
		return "", "", errors.New("wrong authorization header format")
	}

	tokenType := strings.ToUpper(headerParts[0])
	token := headerParts[1]

	if token == "" {
		return "", "", errors.New("token is empty")
	}

	return tokenType, token, nil
}

// Read Bearer token from the request Authorization header and return the token
func ReadBearerToken(ctx *gin.Context) (string, error) {
	tokenType, token, err := ReadAuthorizationHeader(ctx)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(tokenType, "BEARER") {
		return "", errors.New("invalid token type; expected 'Bearer'")
	}

	return token, nil
}

// Read Refresh token from the request Authorization header and return the token
func ReadRefreshToken(ctx *gin.Context) (string, error) {
	tokenType, token, err := ReadAuthorizationHeader(ctx)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(tokenType, "REFRESH") {
		return "", errors.New("invalid token type; expected 'Refresh'")
	}

	return token, nil
}

// ReadLinkToken reads the Bearer token and falls back to the "token" query
// parameter. Only plain download links use it since they cannot set headers.
func ReadLinkToken(ctx *gin.Context) (string, error) {
	token, err := ReadBearerToken(ctx)
	if err == nil {
		return token, nil
	}

	if q := strings.TrimSpace(ctx.Query("token")); q != "" {
		return q, nil
	}

	return "", err
}

// RedactToken masks the "token" query parameter of a request path before it
// is written to the access log.
func RedactToken(path string) string {
	base, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return path
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}
	if !query.Has("token") {
		return path
	}

	query.Set("token", "REDACTED")
	return base + "?" + query.Encode()
}
