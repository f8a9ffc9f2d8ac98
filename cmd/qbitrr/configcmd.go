// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/autobrr/qbitrr/internal/config"
	"github.com/autobrr/qbitrr/internal/domain"
)

func newConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration file operations",
	}
	cmd.AddCommand(newConfigValidateCommand(configPath))
	cmd.AddCommand(newConfigSetLogLevelCommand(configPath))
	return cmd
}

func newConfigValidateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration file without starting any worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.Managers))
			for name := range cfg.Managers {
				names = append(names, name)
			}
			sort.Strings(names)

			cmd.Printf("Configuration OK: %s\n", *configPath)
			cmd.Printf("Managers discovered: %d\n", len(names))
			for _, name := range names {
				mc := cfg.Managers[name]
				status := "managed"
				if !mc.Managed {
					status = "disabled"
				}
				cmd.Printf("  - %s (%s, %s, category=%s, uri=%s, apiKey=%s)\n",
					name, mc.Variant, status, mc.Category, mc.URI, domain.RedactString(mc.APIKey))
			}
			if cfg.Settings.MetricsEnabled {
				cmd.Printf("Metrics: enabled on %s:%d\n", cfg.Settings.MetricsHost, cfg.Settings.MetricsPort)
			} else {
				cmd.Println("Metrics: disabled")
			}
			return nil
		},
	}
}

func newConfigSetLogLevelCommand(configPath *string) *cobra.Command {
	var logPath string
	var logMaxSize, logMaxBackups int

	cmd := &cobra.Command{
		Use:   "set-log-level <level>",
		Short: "Update the logging keys in the config file in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err
			}

			path := logPath
			if path == "" {
				path = cfg.Settings.LogPath
			}
			maxSize := logMaxSize
			if maxSize == 0 {
				maxSize = cfg.Settings.LogMaxSize
			}
			maxBackups := logMaxBackups
			if maxBackups == 0 {
				maxBackups = cfg.Settings.LogMaxBackups
			}

			if err := config.ApplyLogSettings(*configPath, args[0], path, maxSize, maxBackups); err != nil {
				return err
			}
			cmd.Printf("Updated logLevel=%s logPath=%s logMaxSize=%d logMaxBackups=%d in %s\n",
				args[0], path, maxSize, maxBackups, *configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log-path", "", "override the log file path (defaults to the current config value)")
	cmd.Flags().IntVar(&logMaxSize, "log-max-size", 0, "override the log max size in MB (defaults to the current config value)")
	cmd.Flags().IntVar(&logMaxBackups, "log-max-backups", 0, "override the log max backups count (defaults to the current config value)")

	return cmd
}
