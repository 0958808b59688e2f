/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/entity/utils"
)

const loggerName = "DATABASE"

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	SetLevel(level string)
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// InitLogger installs log as the package logger unless one is already set.
func InitLogger(log Logger) {
	if log == nil {
		return
	}
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = log
	}
}

// GetLogger returns the package logger, a DefaultLogger over the DATABASE
// logrus logger unless InitLogger installed another.
func GetLogger() Logger {
	globalLoggerMu.RLock()
	l := globalLogger
	globalLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefaultLogger(nil)
	}
	return globalLogger
}

// DefaultLogger adapts a logrus logger to Logger.
type DefaultLogger struct {
	logger *logrus.Logger
}

func NewDefaultLogger(logger *logrus.Logger) *DefaultLogger {
	if logger == nil {
		logger = utils.GetLogger(loggerName)
	}
	return &DefaultLogger{logger: logger}
}

func (l *DefaultLogger) Debug(msg string, keyvals ...interface{}) {
	l.with(keyvals).Debug(msg)
}

func (l *DefaultLogger) Info(msg string, keyvals ...interface{}) {
	l.with(keyvals).Info(msg)
}

func (l *DefaultLogger) Warn(msg string, keyvals ...interface{}) {
	l.with(keyvals).Warn(msg)
}

func (l *DefaultLogger) Error(msg string, keyvals ...interface{}) {
	l.with(keyvals).Error(msg)
}

func (l *DefaultLogger) SetLevel(level string) {
	l.logger.SetLevel(utils.ParseLogLevel(level))
}

// with turns keyvals into logrus fields. A trailing key without a value is
// dropped.
func (l *DefaultLogger) with(keyvals []interface{}) *logrus.Entry {
	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	return l.logger.WithFields(fields)
}
