// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import "github.com/robfig/cron/v3"

// cronLogger adapts *Logger to the cron.Logger interface.
type cronLogger struct {
	l *Logger
}

// CronLogger returns a cron.Logger that forwards scheduler events to l.
// Informational scheduler chatter is emitted at Debug level.
func CronLogger(l *Logger) cron.Logger {
	return &cronLogger{l: l}
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Str("component", "cron").Msg(msg)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Err(err).Fields(keysAndValues).Str("component", "cron").Msg(msg)
}
