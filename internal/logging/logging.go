// Package logging builds the zap logger used across llmchat.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/llmchat/internal/config"
)

// ServiceName is attached to every log entry
const ServiceName = "llmchat"

// New builds a logger from cfg writing to outputPath.
// The terminal belongs to the TUI, so callers pass a file path here.
func New(cfg config.LogConfig, outputPath string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := strings.ToLower(cfg.Encoding)
	if encoding != "console" {
		encoding = "json"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if encoding == "console" {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if outputPath == "" {
		outputPath = "stderr"
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{outputPath},
		ErrorOutputPaths:  []string{outputPath},
		DisableCaller:     true,
		DisableStacktrace: true,
		InitialFields: map[string]interface{}{
			"service": ServiceName,
		},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Named(ServiceName), nil
}

// NewFromConfig builds the file logger described by the user configuration,
// honouring LLMCHAT_LOG_LEVEL
func NewFromConfig(cfg config.Config) (*zap.Logger, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Log
	logCfg.Level = config.ResolveLogLevel(cfg)
	return New(logCfg, path)
}

// OrNop returns logger, or a no-op logger when it is nil
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
