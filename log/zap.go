// Copyright 2025 The eolscout Authors
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

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements Logger on top of a zap SugaredLogger. It's the
// implementation the server and CLI binaries install at startup.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger. verbose enables debug output.
func NewZapLogger(verbose bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{s: l.Sugar()}, nil
}

// Errorf is the formatted error logging function.
func (z *ZapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

// Warnf is the formatted warning logging function.
func (z *ZapLogger) Warnf(format string, args ...any) { z.s.Warnf(format, args...) }

// Infof is the formatted info logging function.
func (z *ZapLogger) Infof(format string, args ...any) { z.s.Infof(format, args...) }

// Debugf is the formatted debug logging function.
func (z *ZapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error { return z.s.Sync() }
