package config

import (
	"context"
	"os"
	"strings"

	"github.com/dshank05/nextjs-sub001/appctx"
	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logLevelFromEnv())
	logg.SetOutput(os.Stdout)
}

func logLevelFromEnv() logrus.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return logrus.ErrorLevel
	}
	lvl, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.ErrorLevel
	}
	return lvl
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}

// LogErrorCtx is LogError plus the request's correlation id.
func LogErrorCtx(ctx context.Context, moduleName string, funcName string, where string, data any, err error) {
	entry := logg.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  where,
	})
	if data != nil {
		entry = entry.WithField("data", data)
	}
	if cid, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok && cid != "" {
		entry = entry.WithField("correlation_id", cid)
	}
	entry.Error(err.Error())
}

// LogInfoCtx records a workflow milestone with the request's correlation id.
func LogInfoCtx(ctx context.Context, moduleName string, msg string, fields logrus.Fields) {
	entry := logg.WithField("module", moduleName)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	if cid, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok && cid != "" {
		entry = entry.WithField("correlation_id", cid)
	}
	entry.Info(msg)
}
