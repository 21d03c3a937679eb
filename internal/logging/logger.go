package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns the application logger: JSON to stdout at Info level.
func New() *logrus.Logger {
	return &logrus.Logger{
		Out:       os.Stdout,
		Formatter: new(logrus.JSONFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
}
