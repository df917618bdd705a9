// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sync

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/companedia/companedia/internal/sitemod"
)

// ruleSets are the named fragment edits compsync can apply to the static
// site tree. Markers make every set idempotent; a second run is a no-op.
var ruleSets = map[string][]sitemod.FragmentRule{
	"deals-nav": {
		{
			Name:     "deals-nav-link",
			Anchor:   regexp.MustCompile(`<a[^>]*href="/reviews[^"]*"[^>]*>[^<]*</a>`),
			Marker:   "data-nav=\"deals\"",
			Template: "\n<a href=\"/deals/\" data-nav=\"deals\" class=\"nav-link nav-deal\">Deals</a>",
			Mode:     sitemod.InsertAfter,
		},
	},
	"disclosure": {
		{
			Name:     "affiliate-disclosure",
			Anchor:   regexp.MustCompile(`<footer[^>]*>`),
			Marker:   "id=\"affiliate-disclosure\"",
			Template: "\n<p id=\"affiliate-disclosure\" class=\"disclosure\">Some links on this page are affiliate links.</p>",
			Mode:     sitemod.InsertAfter,
		},
	},
	"retire-banner": {
		{
			Name:   "retire-promo-banner",
			Anchor: regexp.MustCompile(`(?s)<div class="promo-banner"[^>]*>.*?</div>\s*`),
			Mode:   sitemod.Remove,
		},
	},
}

// RuleSetNames lists the fragment rule sets, sorted.
func RuleSetNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fragments applies the named rule set to every HTML page under root and
// returns the walker's merged report. dryRun reports without writing.
func (j *Jobs) Fragments(root, setName string, dryRun bool) (sitemod.Report, error) {
	rules, ok := ruleSets[setName]
	if !ok {
		return sitemod.Report{}, fmt.Errorf("unknown rule set %q (have: %v)", setName, RuleSetNames())
	}

	w := sitemod.NewWalker(root, dryRun, j.logger)
	report, err := w.ApplyRules(rules)
	if err != nil {
		return report, fmt.Errorf("applying %s: %w", setName, err)
	}

	j.logger.Info("fragments complete", "set", setName, "dry_run", dryRun, "report", report.Summary())
	return report, nil
}
