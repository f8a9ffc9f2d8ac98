// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// WatchForChanges watches the configuration file at path and logs a warning
// whenever it is edited on disk. Reconcilers and schedulers read their
// configuration once at startup, so an edit never takes effect until the
// process is restarted; this exists to make that obvious operationally
// rather than to silently reload any running worker.
func WatchForChanges(ctx context.Context, path string, log zerolog.Logger) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Warn().Str("path", e.Name).Msg("config: file changed on disk, restart to apply")
	})
	v.WatchConfig()

	<-ctx.Done()
}
