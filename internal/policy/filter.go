// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package policy compiles a manager's per-torrent file filtering rules:
// folder/filename exclusion regexes, an extension allowlist, and an
// optional media-probe gate used by folder cleanup. Config-driven regexes
// are compiled once at construction rather than per evaluation.
package policy

import (
	"path"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/autobrr/qbitrr/internal/domain"
	"github.com/autobrr/qbitrr/internal/qbtclient"
)

// Filter holds one manager's compiled exclusion patterns and allowlist.
type Filter struct {
	folderExclusion   []*regexp.Regexp
	fileNameExclusion []*regexp.Regexp
	allowlist         map[string]struct{}
}

// New compiles the filters described by a manager's configuration.
func New(cfg *domain.ManagerConfig) (*Filter, error) {
	f := &Filter{allowlist: make(map[string]struct{}, len(cfg.FileExtensionAllowlist))}

	for _, ext := range cfg.FileExtensionAllowlist {
		f.allowlist[strings.ToLower(ext)] = struct{}{}
	}

	compile := func(patterns []string) ([]*regexp.Regexp, error) {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			if !cfg.CaseSensitiveMatches {
				p = "(?i)" + p
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, errors.Wrapf(err, "compiling pattern %q", p)
			}
			out = append(out, re)
		}
		return out, nil
	}

	var err error
	if f.folderExclusion, err = compile(cfg.FolderExclusionRegex); err != nil {
		return nil, err
	}
	if f.fileNameExclusion, err = compile(cfg.FileNameExclusionRegex); err != nil {
		return nil, err
	}
	return f, nil
}

// AllowedExtension reports whether a file extension is on the allowlist. An
// empty allowlist allows nothing, matching the original's fail-closed
// behavior when no extensions are configured.
func (f *Filter) AllowedExtension(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	_, ok := f.allowlist[ext]
	return ok
}

func (f *Filter) matchesFolder(name string) bool {
	for _, dir := range strings.Split(path.Dir(name), "/") {
		for _, re := range f.folderExclusion {
			if re.MatchString(dir) {
				return true
			}
		}
	}
	return false
}

func (f *Filter) matchesFileName(name string) bool {
	base := path.Base(name)
	for _, re := range f.fileNameExclusion {
		if re.MatchString(base) {
			return true
		}
	}
	return false
}

// Classify runs the Reconciler's rule-14 file scan: it returns the ids of
// files to deprioritize and the number of files that remain wanted after
// the scan. A caller sees remaining == 0 as "delete the whole torrent".
func (f *Filter) Classify(files []qbtclient.FileEntry) (deprioritize []int, remaining int) {
	remaining = len(files)
	for _, file := range files {
		if file.Priority == 0 {
			continue
		}
		switch {
		case !f.AllowedExtension(file.Name):
			deprioritize = append(deprioritize, file.ID)
			remaining--
		case f.matchesFolder(file.Name):
			deprioritize = append(deprioritize, file.ID)
			remaining--
		case f.matchesFileName(file.Name):
			deprioritize = append(deprioritize, file.ID)
			remaining--
		}
	}
	return deprioritize, remaining
}
