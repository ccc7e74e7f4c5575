package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

// InitLogger applies the level and output format to the process logger.
// Call it once from main before serving.
func InitLogger(level logrus.Level, json bool) *logrus.Logger {
	logger.SetLevel(level)
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// GetLogger returns the process logger. Before InitLogger it logs text at
// info level.
func GetLogger() *logrus.Logger {
	return logger
}

// ParseLevel turns a LOG_LEVEL value into a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
