// Copyright (c) 2021-2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDevelopmentLogger returns a new development logger.
func NewDevelopmentLogger() (*zap.SugaredLogger, error) {
	return build(zapcore.DebugLevel, true, "console")
}

// NewProductionLogger returns a JSON logger at info level, e.g. for runs driven by an orchestrator scraping the output.
func NewProductionLogger() (*zap.SugaredLogger, error) {
	return build(zapcore.InfoLevel, false, "json")
}

// NewLogger returns the development logger if development is set and the production logger otherwise.
func NewLogger(development bool) (*zap.SugaredLogger, error) {
	if development {
		return NewDevelopmentLogger()
	}
	return NewProductionLogger()
}

func build(level zapcore.Level, development bool, encoding string) (*zap.SugaredLogger, error) {
	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: development,
		Encoding:    encoding,
		// Reports go to stdout, so logs stay on stderr.
		OutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",

			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.ISO8601TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
