// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"log"
	"os"
)

// LogLevel selects how verbose a LogGroup is. A message is written when its
// level is at most the level the group was configured with.
type LogLevel int

const (
	// ErrLevel reports only failures.
	ErrLevel LogLevel = 1 + iota
	// WarnLevel adds recoverable problems, such as dropped taint records.
	WarnLevel
	// InfoLevel adds analysis summaries and is the default.
	InfoLevel
	// DebugLevel adds per-step solver output. Too verbose for anything but
	// small programs.
	DebugLevel
)

// LogGroup is the leveled logger the analyses report through. Messages go to
// standard error so analysis results on standard output stay clean.
type LogGroup struct {
	level LogLevel
	out   *log.Logger
}

// NewLogGroup returns a log group honoring the log level stored in the
// config. A level of zero silences the group entirely.
func NewLogGroup(config *Config) *LogGroup {
	return &LogGroup{
		level: LogLevel(config.LogLevel),
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *LogGroup) logf(lvl LogLevel, tag, format string, v ...any) {
	if lvl > l.level {
		return
	}
	l.out.Printf(tag+" "+format, v...)
}

// Errorf logs a failure. Arguments are handled in the manner of Printf.
func (l *LogGroup) Errorf(format string, v ...any) {
	l.logf(ErrLevel, "[ERROR]", format, v...)
}

// Warnf logs a recoverable problem. Arguments are handled in the manner of
// Printf.
func (l *LogGroup) Warnf(format string, v ...any) {
	l.logf(WarnLevel, "[WARN]", format, v...)
}

// Infof logs an analysis summary. Arguments are handled in the manner of
// Printf.
func (l *LogGroup) Infof(format string, v ...any) {
	l.logf(InfoLevel, "[INFO]", format, v...)
}

// Debugf logs solver detail. Arguments are handled in the manner of Printf.
func (l *LogGroup) Debugf(format string, v ...any) {
	l.logf(DebugLevel, "[DEBUG]", format, v...)
}
