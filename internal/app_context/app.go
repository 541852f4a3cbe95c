package appcontext

import (
	"github.com/SeakMengs/CadetTrack/internal/auth"
	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/SeakMengs/CadetTrack/internal/mailer"
	"github.com/SeakMengs/CadetTrack/internal/repository"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository is nil in controller tests, everything goes through Service there.
	Repository *repository.Repository

	// Service runs the task tracker operations; controllers only translate HTTP.
	Service *service.Service

	// JWTService manages JWT operations for authentication such as generate, verify, refresh token.
	JWTService auth.JWTInterface

	// Mailer sends account emails; nil skips them.
	Mailer mailer.Client
}
