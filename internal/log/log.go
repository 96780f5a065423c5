package log

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds the process-wide JSON logger. Call once from main.
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	logger = l
}

// Sync flushes buffered entries; safe to defer from main.
func Sync() { _ = logger.Sync() }

// L exposes the underlying zap logger for collaborators that log directly.
func L() *zap.Logger { return logger }

func reqFields(c *fiber.Ctx, fields []zap.Field) []zap.Field {
	if c == nil {
		return fields
	}
	out := make([]zap.Field, 0, len(fields)+3)
	out = append(out, zap.String("method", c.Method()), zap.String("path", c.Path()))
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		out = append(out, zap.String("req_id", rid))
	}
	return append(out, fields...)
}

// Info logs a business action. c may be nil outside a request.
func Info(c *fiber.Ctx, action string, fields ...zap.Field) {
	logger.Info(action, reqFields(c, fields)...)
}

// Warn logs swallowed boundary failures (event publish, audit sinks).
func Warn(c *fiber.Ctx, action string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Warn(action, reqFields(c, fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(action, reqFields(c, fields)...)
}
