package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/softionyx/site/internal/config"
	jwtpkg "github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/response"
	"github.com/softionyx/site/internal/pkg/validate"
)

func applyRuntimeSettings(cfg *config.AppConfig, logger *zap.Logger) {
	validate.Register()
	response.ExposeErrorDetails(!cfg.IsProduction())

	jwtpkg.SetSecret(cfg.JWTSecret)
	if !jwtpkg.Configured() {
		logger.Warn("jwt_secret is empty, registration, login and authenticated routes will fail")
	}
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
