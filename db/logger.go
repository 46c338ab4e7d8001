package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormWriter sends gorm's messages to logrus. gorm only prints warnings and
// errors at the level we configure, so everything lands at warn.
type gormWriter struct {
	log *logrus.Entry
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

// NewLogger builds a gorm logger on top of log. Lookups that find nothing are
// expected outcomes and are not logged.
func NewLogger(log *logrus.Entry) logger.Interface {
	return logger.New(gormWriter{log: log.WithField("component", "gorm")}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
