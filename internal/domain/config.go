// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package domain holds the configuration and value types shared across
// every other package in this module.
package domain

import "time"

// Variant discriminates the two media-manager flavors this daemon talks to.
type Variant string

const (
	VariantSonarr Variant = "sonarr"
	VariantRadarr Variant = "radarr"
)

// Config is the top-level, fully-resolved application configuration: the
// global [settings] table plus every discovered manager section.
type Config struct {
	Settings SettingsConfig
	Managers map[string]*ManagerConfig
}

// SettingsConfig is the global [settings] TOML table.
type SettingsConfig struct {
	LoopSleepTimer          int    `toml:"loopSleepTimer" mapstructure:"loopSleepTimer"`
	NoInternetSleepTimer    int    `toml:"noInternetSleepTimer" mapstructure:"noInternetSleepTimer"`
	FailedCategory          string `toml:"failedCategory" mapstructure:"failedCategory"`
	RecheckCategory         string `toml:"recheckCategory" mapstructure:"recheckCategory"`
	CompletedDownloadFolder string `toml:"completedDownloadFolder" mapstructure:"completedDownloadFolder"`
	AppDataFolder           string `toml:"appDataFolder" mapstructure:"appDataFolder"`

	QbitHost     string `toml:"qbitHost" mapstructure:"qbitHost"`
	QbitUsername string `toml:"qbitUsername" mapstructure:"qbitUsername"`
	QbitPassword string `toml:"qbitPassword" mapstructure:"qbitPassword"`

	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`

	MetricsEnabled bool   `toml:"metricsEnabled" mapstructure:"metricsEnabled"`
	MetricsHost    string `toml:"metricsHost" mapstructure:"metricsHost"`
	MetricsPort    int    `toml:"metricsPort" mapstructure:"metricsPort"`
}

// DefaultSettings returns the factory-default settings applied before any
// config file or environment override is layered on top.
func DefaultSettings() SettingsConfig {
	return SettingsConfig{
		LoopSleepTimer:       5,
		NoInternetSleepTimer: 60,
		FailedCategory:       "failed",
		RecheckCategory:      "recheck",
		LogLevel:             "INFO",
		LogMaxSize:           50,
		LogMaxBackups:        3,
		MetricsHost:          "127.0.0.1",
		MetricsPort:          9074,
	}
}

// ManagerConfig is one `[sonarr...]` / `[radarr...]` TOML table.
type ManagerConfig struct {
	Name    string `mapstructure:"-"`
	Variant Variant `mapstructure:"-"`

	Managed bool   `toml:"managed" mapstructure:"managed"`
	URI     string `toml:"uri" mapstructure:"uri"`
	APIKey  string `toml:"apiKey" mapstructure:"apiKey"`
	// Category defaults to the section name when empty.
	Category     string `toml:"category" mapstructure:"category"`
	DatabaseFile string `toml:"databaseFile" mapstructure:"databaseFile"`

	Research   bool   `toml:"research" mapstructure:"research"`
	ImportMode string `toml:"importMode" mapstructure:"importMode"`

	RefreshDownloadsTimer int `toml:"refreshDownloadsTimer" mapstructure:"refreshDownloadsTimer"`
	RssSyncTimer          int `toml:"rssSyncTimer" mapstructure:"rssSyncTimer"`

	CaseSensitiveMatches   bool     `toml:"caseSensitiveMatches" mapstructure:"caseSensitiveMatches"`
	FolderExclusionRegex   []string `toml:"folderExclusionRegex" mapstructure:"folderExclusionRegex"`
	FileNameExclusionRegex []string `toml:"fileNameExclusionRegex" mapstructure:"fileNameExclusionRegex"`
	FileExtensionAllowlist []string `toml:"fileExtensionAllowlist" mapstructure:"fileExtensionAllowlist"`

	AutoDelete                bool    `toml:"autoDelete" mapstructure:"autoDelete"`
	IgnoreTorrentsYoungerThan int     `toml:"ignoreTorrentsYoungerThan" mapstructure:"ignoreTorrentsYoungerThan"`
	MaximumETA                int     `toml:"maximumETA" mapstructure:"maximumETA"`
	MaximumDeletablePercentage float64 `toml:"maximumDeletablePercentage" mapstructure:"maximumDeletablePercentage"`

	SearchMissing      bool `toml:"searchMissing" mapstructure:"searchMissing"`
	AlsoSearchSpecials bool `toml:"alsoSearchSpecials" mapstructure:"alsoSearchSpecials"`
	SearchByYear       bool `toml:"searchByYear" mapstructure:"searchByYear"`
	SearchInReverse    bool `toml:"searchInReverse" mapstructure:"searchInReverse"`
	StartYear          int  `toml:"startYear" mapstructure:"startYear"`
	LastYear           int  `toml:"lastYear" mapstructure:"lastYear"`
	SearchLimit        int  `toml:"searchLimit" mapstructure:"searchLimit"`
}

// DefaultManagerConfig mirrors the per-manager defaults documented in §6.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Managed:                    true,
		ImportMode:                 "Move",
		IgnoreTorrentsYoungerThan:  600,
		MaximumETA:                 86400,
		MaximumDeletablePercentage: 0.95,
		SearchLimit:                5,
	}
}

// IgnoreTorrentsYoungerThanDuration returns the configured grace period as a duration.
func (m *ManagerConfig) IgnoreTorrentsYoungerThanDuration() time.Duration {
	return time.Duration(m.IgnoreTorrentsYoungerThan) * time.Second
}

// MaximumETADuration returns the configured maximum ETA as a duration.
func (m *ManagerConfig) MaximumETADuration() time.Duration {
	return time.Duration(m.MaximumETA) * time.Second
}
