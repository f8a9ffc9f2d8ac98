// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logging configures the process-global zerolog logger from a
// resolved domain.Config: a human-readable console writer on stderr, or a
// rotating file sink in its place when LogPath is set.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/autobrr/qbitrr/internal/domain"
)

// Configure sets zerolog's global level and output writer from settings.
// Safe to call once at process startup, before any worker starts.
func Configure(settings domain.SettingsConfig) {
	zerolog.SetGlobalLevel(parseLevel(settings.LogLevel))

	var writer zerolog.ConsoleWriter
	if settings.LogPath != "" {
		log.Logger = zerolog.New(&lumberjack.Logger{
			Filename:   settings.LogPath,
			MaxSize:    maxOr(settings.LogMaxSize, 50),
			MaxBackups: settings.LogMaxBackups,
			Compress:   true,
		}).With().Timestamp().Logger()
		return
	}

	writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
}

func maxOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Scoped returns a logger tagged with a manager group name, mirroring the
// original implementation's per-group logger instances.
func Scoped(group string) zerolog.Logger {
	return log.With().Str("manager", group).Logger()
}
