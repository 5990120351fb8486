/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package log builds the zap logger both binaries use and installs it as
// the context logger consumed everywhere else via
// knative.dev/pkg/logging.FromContext(ctx).
package log

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"knative.dev/pkg/logging"
)

// Options controls log level and output destinations; mirrors the
// --log-level/--log-output-paths/--log-error-output-paths flags.
type Options struct {
	Level            string
	OutputPaths      string
	ErrorOutputPaths string
	Debug            bool
}

func (o Options) level() zapcore.Level {
	if o.Debug {
		return zapcore.DebugLevel
	}
	switch strings.ToLower(o.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func splitOrDefault(raw string, def []string) []string {
	if raw == "" {
		return def
	}
	return strings.Split(raw, ",")
}

// NewLogger builds a *zap.SugaredLogger for the given component name.
func NewLogger(o Options, component string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(o.level())
	cfg.OutputPaths = splitOrDefault(o.OutputPaths, []string{"stdout"})
	cfg.ErrorOutputPaths = splitOrDefault(o.ErrorOutputPaths, []string{"stderr"})
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Building the logger itself failing is a startup-fatal condition;
		// there's nowhere sensible left to log this error to.
		panic(err)
	}
	return logger.Named(component).Sugar()
}

// IntoContext installs logger as the context logger so downstream code
// can use logging.FromContext(ctx) uniformly.
func IntoContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return logging.WithLogger(ctx, logger)
}
