package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/english-course-bot/internal/config"
)

// New builds the application logger: JSON in production, console output otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("env", cfg.Env)), nil
}
