package logger

import (
	"go.uber.org/zap"
)

// Log is a no-op until Init runs, so library code can log unconditionally.
var Log = zap.NewNop().Sugar()

func Init(env string) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
