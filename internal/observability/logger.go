// Package observability 日志与指标
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"myspace/storage-api/config"
)

// InitLogger 按配置构建 zap 日志器
func InitLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	return zapConfig.Build()
}

// MustLogger 构建日志器，失败则 panic
func MustLogger(cfg *config.LogConfig) *zap.Logger {
	logger, err := InitLogger(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}
