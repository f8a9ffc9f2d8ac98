// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads the TOML configuration file into a domain.Config,
// discovering manager sections dynamically and applying QBITRR__-prefixed
// environment variable overrides for the global settings table.
package config

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/autobrr/qbitrr/internal/domain"
)

var managerSectionPattern = regexp.MustCompile(`(?i)^(son|rad)arr.*`)

// envOverrides maps a settings field's viper key to the environment
// variable that overrides it, following a QBITRR__ prefix convention.
var envOverrides = map[string]string{
	"settings.loopSleepTimer":          "QBITRR__LOOP_SLEEP_TIMER",
	"settings.noInternetSleepTimer":    "QBITRR__NO_INTERNET_SLEEP_TIMER",
	"settings.failedCategory":         "QBITRR__FAILED_CATEGORY",
	"settings.recheckCategory":        "QBITRR__RECHECK_CATEGORY",
	"settings.completedDownloadFolder": "QBITRR__COMPLETED_DOWNLOAD_FOLDER",
	"settings.appDataFolder":          "QBITRR__APPDATA_FOLDER",
	"settings.qbitHost":               "QBITRR__QBIT_HOST",
	"settings.qbitUsername":           "QBITRR__QBIT_USERNAME",
	"settings.qbitPassword":           "QBITRR__QBIT_PASSWORD",
	"settings.logLevel":               "QBITRR__LOG_LEVEL",
	"settings.logPath":                "QBITRR__LOG_PATH",
	"settings.metricsEnabled":         "QBITRR__METRICS_ENABLED",
	"settings.metricsHost":            "QBITRR__METRICS_HOST",
	"settings.metricsPort":            "QBITRR__METRICS_PORT",
}

// New reads and validates the configuration file at path.
func New(path string) (*domain.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	for key, env := range envOverrides {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "binding env override for %s", key)
		}
	}

	// Unmarshal (not UnmarshalKey) is used so the env bindings above are
	// merged into the settings subtree before decoding.
	wrapper := struct {
		Settings domain.SettingsConfig `mapstructure:"settings"`
	}{Settings: domain.DefaultSettings()}
	if err := v.Unmarshal(&wrapper); err != nil {
		return nil, errors.Wrap(err, "decoding [settings]")
	}
	settings := wrapper.Settings

	managers, err := discoverManagers(v)
	if err != nil {
		return nil, err
	}

	if err := validateManagers(managers); err != nil {
		return nil, err
	}

	return &domain.Config{Settings: settings, Managers: managers}, nil
}

func discoverManagers(v *viper.Viper) (map[string]*domain.ManagerConfig, error) {
	managers := make(map[string]*domain.ManagerConfig)

	for _, key := range v.AllKeys() {
		section := strings.SplitN(key, ".", 2)[0]
		if section == "settings" || section == "" {
			continue
		}
		if !managerSectionPattern.MatchString(section) {
			continue
		}
		if _, ok := managers[section]; ok {
			continue
		}

		mc := domain.DefaultManagerConfig()
		if err := v.UnmarshalKey(section, &mc); err != nil {
			return nil, errors.Wrapf(err, "decoding manager section [%s]", section)
		}

		mc.Name = section
		if mc.Category == "" {
			mc.Category = section
		}
		mc.Variant = domain.VariantRadarr
		if strings.HasPrefix(strings.ToLower(section), "son") {
			mc.Variant = domain.VariantSonarr
		}

		managers[section] = &mc
	}

	return managers, nil
}

func validateManagers(managers map[string]*domain.ManagerConfig) error {
	uris := make(map[string]string)
	for name, mc := range managers {
		if !mc.Managed {
			continue
		}
		if mc.URI == "" {
			return errors.Errorf("configuration error: manager [%s] is missing required key uri", name)
		}
		if owner, exists := uris[mc.URI]; exists {
			return errors.Errorf("configuration error: duplicate uri %q used by [%s] and [%s]", mc.URI, owner, name)
		}
		uris[mc.URI] = name
	}
	return nil
}
