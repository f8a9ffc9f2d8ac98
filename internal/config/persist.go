// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ApplyLogSettings rewrites the log-related keys of the config file at path
// in place, preserving every other line and comment.
func ApplyLogSettings(path, logLevel, logPath string, logMaxSize, logMaxBackups int) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}

	updated := updateLogSettingsInTOML(string(content), logLevel, logPath, logMaxSize, logMaxBackups)

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat config file %s", path)
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode()); err != nil {
		return errors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}

// updateLogSettingsInTOML rewrites the logPath/logMaxSize/logMaxBackups/
// logLevel keys in an existing config file's raw text, preserving comments
// and uncommenting a key in place if it was only documented. Keys that do
// not appear anywhere in the file (commented or not) are appended under a
// new "# Log settings" section at the end.
func updateLogSettingsInTOML(content, logLevel, logPath string, logMaxSize, logMaxBackups int) string {
	values := map[string]string{
		"logPath":       quoteIfNonEmpty(logPath),
		"logMaxSize":    fmt.Sprintf("%d", logMaxSize),
		"logMaxBackups": fmt.Sprintf("%d", logMaxBackups),
		"logLevel":      fmt.Sprintf("%q", logLevel),
	}

	order := []string{"logPath", "logMaxSize", "logMaxBackups", "logLevel"}

	lines := strings.Split(content, "\n")
	found := make(map[string]bool)

	for _, key := range order {
		re := regexp.MustCompile(`^(\s*)#?\s*` + regexp.QuoteMeta(key) + `\s*=.*$`)
		for i, line := range lines {
			if re.MatchString(line) {
				indent := re.FindStringSubmatch(line)[1]
				lines[i] = fmt.Sprintf("%s%s = %s", indent, key, values[key])
				found[key] = true
				break
			}
		}
	}

	content = strings.Join(lines, "\n")

	var missing []string
	for _, key := range order {
		if !found[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return content
	}

	var b strings.Builder
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n# Log settings\n")
	for _, key := range missing {
		b.WriteString(fmt.Sprintf("%s = %s\n", key, values[key]))
	}

	return b.String()
}

func quoteIfNonEmpty(path string) string {
	if path == "" {
		return `""`
	}
	return fmt.Sprintf("%q", path)
}
