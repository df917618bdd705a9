// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sitemod

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Report summarizes one rule pass over a file tree. NotMatched files are
// counted and listed, never silently dropped.
type Report struct {
	Changed    []string
	Unchanged  []string
	NotMatched []string
}

// Summary renders the report in the one-line form the CLI prints.
func (r Report) Summary() string {
	return fmt.Sprintf("%d changed, %d unchanged, %d not matched",
		len(r.Changed), len(r.Unchanged), len(r.NotMatched))
}

// Walker applies fragment rules across the static site tree.
type Walker struct {
	root   string
	dryRun bool
	logger *slog.Logger
}

// NewWalker creates a walker rooted at the static site directory. With
// dryRun set, files are read and diffed but never written.
func NewWalker(root string, dryRun bool, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{root: root, dryRun: dryRun, logger: logger}
}

// ApplyRule runs one rule over every HTML file under the root, including the
// locale-prefixed subtrees, and writes changed files back in place.
func (w *Walker) ApplyRule(rule FragmentRule) (Report, error) {
	var report Report
	if err := rule.Validate(); err != nil {
		return report, err
	}

	// A Remove rule has no separate marker: per file, a missing anchor is
	// indistinguishable from "already removed". Misses are held back and
	// classified after the walk — if the anchor matched nowhere in the
	// whole tree the rule did nothing, and that is worth surfacing.
	var removeMisses []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc := string(data)

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			rel = path
		}

		next, changed := rule.Apply(doc)
		switch {
		case changed:
			if !w.dryRun {
				if err := os.WriteFile(path, []byte(next), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}
			report.Changed = append(report.Changed, rel)
			w.logger.Debug("fragment applied", "rule", rule.Name, "file", rel)
		case rule.Mode == Remove:
			removeMisses = append(removeMisses, rel)
		case !rule.Matched(doc):
			report.NotMatched = append(report.NotMatched, rel)
			w.logger.Warn("anchor not found", "rule", rule.Name, "file", rel)
		default:
			report.Unchanged = append(report.Unchanged, rel)
		}
		return nil
	})
	if len(removeMisses) > 0 {
		if len(report.Changed) == 0 {
			report.NotMatched = append(report.NotMatched, removeMisses...)
			w.logger.Warn("anchor not found in any file", "rule", rule.Name)
		} else {
			report.Unchanged = append(report.Unchanged, removeMisses...)
		}
	}
	return report, err
}

// ApplyRules runs a rule set in order, merging the per-rule reports.
func (w *Walker) ApplyRules(rules []FragmentRule) (Report, error) {
	var merged Report
	for _, rule := range rules {
		r, err := w.ApplyRule(rule)
		if err != nil {
			return merged, fmt.Errorf("applying rule %q: %w", rule.Name, err)
		}
		merged.Changed = append(merged.Changed, r.Changed...)
		merged.Unchanged = append(merged.Unchanged, r.Unchanged...)
		merged.NotMatched = append(merged.NotMatched, r.NotMatched...)
	}
	return merged, nil
}
