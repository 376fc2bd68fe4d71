package logging

import "github.com/inconshreveable/log15"

// CronLogger adapts a log15 logger to cron.Logger
type CronLogger struct {
	Log log15.Logger
}

func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.Log.Debug(msg, keysAndValues...)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.Log.Error(msg, append(keysAndValues, "error", err)...)
}
