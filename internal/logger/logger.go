// Package logger builds the application's zap logger and provides an
// Echo middleware that logs each HTTP request with its request id.
package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a zap logger. Production environments get structured
// JSON output; everything else gets the human-readable development
// encoder. The level string comes from LOG_LEVEL and falls back to
// info when invalid.
func New(env, levelStr string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(level)

	return cfg.Build()
}

// RequestLogger returns an Echo middleware that emits one structured
// log line per request: method, path, status, latency, client IP and
// the request id injected by the RequestID middleware.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zapcore.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if rid, ok := c.Get("request_id").(string); ok && rid != "" {
				fields = append(fields, zap.String("request_id", rid))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
				log.Error("http request failed", fields...)
			} else {
				log.Info("http request", fields...)
			}
			return err
		}
	}
}
