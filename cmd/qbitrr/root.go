// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "qbitrr",
		Short: "Reconciles a BitTorrent client's state with one or more Sonarr/Radarr-style media managers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to the configuration file")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newConfigCommand(&configPath))

	return cmd
}
