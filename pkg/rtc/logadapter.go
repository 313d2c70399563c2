// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rtc

import (
	"fmt"

	"github.com/pion/logging"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/meshsignal/pkg/config"
)

// implements webrtc.LoggerFactory
type loggerFactory struct {
	logger logger.Logger
}

func newLoggerFactory(l logger.Logger) logging.LoggerFactory {
	return &loggerFactory{
		logger: l.WithComponent(config.PionComponent),
	}
}

func (f *loggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &logAdapter{
		logger: f.logger.WithValues("scope", scope),
	}
}

// implements webrtc.LeveledLogger
type logAdapter struct {
	logger logger.Logger
}

func (l *logAdapter) Trace(msg string) {}

func (l *logAdapter) Tracef(format string, args ...interface{}) {}

func (l *logAdapter) Debug(msg string) {
	l.logger.Debugw(msg)
}

func (l *logAdapter) Debugf(format string, args ...interface{}) {
	l.logger.Debugw(fmt.Sprintf(format, args...))
}

// treat info as debug
func (l *logAdapter) Info(msg string) {
	l.logger.Debugw(msg)
}

func (l *logAdapter) Infof(format string, args ...interface{}) {
	l.logger.Debugw(fmt.Sprintf(format, args...))
}

func (l *logAdapter) Warn(msg string) {
	l.logger.Warnw(msg, nil)
}

func (l *logAdapter) Warnf(format string, args ...interface{}) {
	l.logger.Warnw(fmt.Sprintf(format, args...), nil)
}

func (l *logAdapter) Error(msg string) {
	l.logger.Errorw(msg, nil)
}

func (l *logAdapter) Errorf(format string, args ...interface{}) {
	l.logger.Errorw(fmt.Sprintf(format, args...), nil)
}
