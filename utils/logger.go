package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
}

// SetLevel parses a level name such as "debug" and applies it to the info
// logger. Unknown names keep the current level.
func SetLevel(name string) {
	if InfoLogger == nil || name == "" {
		return
	}
	if lvl, err := logrus.ParseLevel(name); err == nil {
		InfoLogger.SetLevel(lvl)
	}
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}
