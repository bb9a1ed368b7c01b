package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = logrus.New()

// InitLogger points Log at a rotated JSON log file.
func InitLogger() {
	file := viper.GetString("LOG_FILE")
	if file == "" {
		file = "logs/app.log"
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		Log.Warn("cannot create log directory, logging to stderr: ", err)
	} else {
		Log.Out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	Log.SetLevel(ParseLevel(viper.GetString("LOG_LEVEL")))
	Log.SetFormatter(&logrus.JSONFormatter{})

	Log.Info("logger initialized")
}

// ParseLevel maps LOG_LEVEL onto a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
