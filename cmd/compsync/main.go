// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

// Command compsync runs the offline maintenance jobs against the record
// store and the static site tree: translation dedupe, content
// normalization, placeholder creation, machine translation, fragment
// edits, and sitemap updates.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/companedia/companedia/internal/airtable"
	"github.com/companedia/companedia/internal/config"
	"github.com/companedia/companedia/internal/ratelimit"
	"github.com/companedia/companedia/internal/service"
	"github.com/companedia/companedia/internal/sync"
)

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, "compsync - offline sync jobs for the review directory\n\n")
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
	_, _ = fmt.Fprintf(os.Stderr, "  dedupe        merge and delete duplicate translation rows\n")
	_, _ = fmt.Fprintf(os.Stderr, "  normalize     repair broken pricing/feature/FAQ fields\n")
	_, _ = fmt.Fprintf(os.Stderr, "  placeholders  create empty translation rows for missing pairs\n")
	_, _ = fmt.Fprintf(os.Stderr, "  translate     machine-translate empty translation rows\n")
	_, _ = fmt.Fprintf(os.Stderr, "  fragments     apply a fragment rule set to the static site\n")
	_, _ = fmt.Fprintf(os.Stderr, "  sitemap       patch or rebuild sitemap.xml\n")
	_, _ = fmt.Fprintf(os.Stderr, "\nRequired environment: COMPANEDIA_AIRTABLE_TOKEN, COMPANEDIA_AIRTABLE_BASE\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("configuration error: %v", err)
	}

	store, err := airtable.New(airtable.Options{
		Token:      cfg.AirtableToken,
		BaseID:     cfg.AirtableBaseID,
		WriteDelay: cfg.WriteDelay(),
		Logger:     logger,
	})
	if err != nil {
		fatal("creating store client: %v", err)
	}

	jobs := sync.New(store, service.Tables{
		Companions:   cfg.CompanionsTable,
		Translations: cfg.TranslationsTable,
		Articles:     cfg.ArticlesTable,
	}, logger)

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "dedupe":
		report, err := jobs.Dedupe(ctx)
		exit(err, "dedupe: %d duplicate groups, %d merged, %d deleted",
			report.Groups, report.Merged, report.Deleted)

	case "normalize":
		report, err := jobs.Normalize(ctx)
		exit(err, "normalize: %d scanned, %d updated, %d unreparable",
			report.Scanned, report.Updated, report.Errors)

	case "placeholders":
		report, err := jobs.Placeholders(ctx)
		exit(err, "placeholders: %d companions, %d created, %d existing",
			report.Companions, report.Created, report.Existing)

	case "translate":
		fs := flag.NewFlagSet("translate", flag.ExitOnError)
		dryRun := fs.Bool("dry-run", false, "log what would be translated without writing")
		langs := fs.String("langs", "", "comma-separated language codes (default: all non-English)")
		limit := fs.Int("limit", 0, "maximum rows to translate (0 = no cap)")
		_ = fs.Parse(args)

		if !cfg.TranslateEnabled() {
			fatal("COMPANEDIA_OPENAI_KEY is required for the translate job")
		}
		opts := sync.TranslateOptions{DryRun: *dryRun, Limit: *limit}
		if *langs != "" {
			opts.Langs = strings.Split(*langs, ",")
		}
		tr := sync.NewOpenAITranslator(cfg.OpenAIKey, cfg.OpenAIModel)
		report, err := jobs.Translate(ctx, tr, ratelimit.NewFixedDelay(cfg.WriteDelay()), opts)
		exit(err, "translate: %d empty rows, %d translated, %d skipped",
			report.Rows, report.Translated, report.Skipped)

	case "fragments":
		fs := flag.NewFlagSet("fragments", flag.ExitOnError)
		set := fs.String("set", "", "rule set name, one of: "+strings.Join(sync.RuleSetNames(), ", "))
		dryRun := fs.Bool("dry-run", false, "report without writing")
		_ = fs.Parse(args)
		if *set == "" {
			fatal("fragments: -set is required (one of: %s)", strings.Join(sync.RuleSetNames(), ", "))
		}
		report, err := jobs.Fragments(cfg.SiteDir, *set, *dryRun)
		exit(err, "fragments: %s", report.Summary())

	case "sitemap":
		fs := flag.NewFlagSet("sitemap", flag.ExitOnError)
		rebuild := fs.Bool("rebuild", false, "regenerate from the record store instead of patching")
		dryRun := fs.Bool("dry-run", false, "report without writing")
		_ = fs.Parse(args)
		report, err := jobs.Sitemap(ctx, sync.SitemapOptions{
			SiteDir: cfg.SiteDir,
			SiteURL: cfg.SiteURL,
			Rebuild: *rebuild,
			DryRun:  *dryRun,
		})
		exit(err, "sitemap: %d urls, changed=%v", report.URLs, report.Changed)

	case "help", "-h", "--help":
		usage()

	default:
		usage()
		fatal("unknown command %q", command)
	}
}

func exit(err error, format string, args ...any) {
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf(format+"\n", args...)
}

func fatal(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "compsync: "+format+"\n", args...)
	os.Exit(1)
}
