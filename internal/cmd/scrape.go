package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/medmaha/dokoola-scraper/internal/browser"
	"github.com/medmaha/dokoola-scraper/internal/config"
	"github.com/medmaha/dokoola-scraper/internal/export"
	"github.com/medmaha/dokoola-scraper/internal/models"
	"github.com/medmaha/dokoola-scraper/internal/network"
	"github.com/medmaha/dokoola-scraper/internal/scraper"
	"github.com/medmaha/dokoola-scraper/internal/seen"
)

type ScrapeCmd struct {
	Sites string `help:"Comma-separated list of sites (default: all)." default:"all"`
	ScrapeOptions
}

type SiteCmd struct {
	ScrapeOptions
	Site string `kong:"-"`
}

type ScrapeOptions struct {
	MaxJobs    int    `help:"Maximum job links visited per site." env:"DOKOOLA_SCRAPER_MAX_JOBS"`
	Workers    int    `help:"Parse worker pool size per site." env:"DOKOOLA_SCRAPER_WORKERS"`
	Timeout    int    `help:"Overall run timeout in seconds." default:"600"`
	Static     bool   `help:"Fetch over plain HTTP instead of the headless browser."`
	Format     string `help:"Output format: csv, json, md." enum:",csv,json,md" default:""`
	Links      string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output     string `name:"output" short:"o" help:"Write output to a file."`
	Proxies    string `help:"Comma-separated proxy URLs (static mode only)." env:"DOKOOLA_SCRAPER_PROXIES"`
	Seen       string `help:"Path to seen jobs JSON file."`
	NewOnly    bool   `help:"Output only unseen jobs (requires --seen)."`
	NewOut     string `help:"Write unseen jobs JSON to a file (requires --seen)."`
	SeenUpdate bool   `help:"Merge newly discovered jobs into --seen after the run (requires --seen)."`
}

func (s *ScrapeCmd) Run(ctx *Context) error {
	return runScrape(ctx, s.Sites, s.ScrapeOptions)
}

func (s *SiteCmd) Run(ctx *Context) error {
	return runScrape(ctx, s.Site, s.ScrapeOptions)
}

type siteFailure struct {
	site string
	err  error
}

func runScrape(ctx *Context, sitesArg string, opts ScrapeOptions) error {
	if opts.NewOnly && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-only requires --seen")
	}
	if strings.TrimSpace(opts.NewOut) != "" && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--new-out requires --seen")
	}
	if opts.SeenUpdate && strings.TrimSpace(opts.Seen) == "" {
		return fmt.Errorf("--seen-update requires --seen")
	}

	cfg := ctx.Config
	maxJobs := defaultInt(opts.MaxJobs, cfg.DefaultMaxJobs)
	workers := defaultInt(opts.Workers, cfg.Workers)
	seenPath := firstNonEmpty(opts.Seen, cfg.SeenPath)

	configs, err := selectSites(scraper.Registry(maxJobs, workers), sitesArg)
	if err != nil {
		return err
	}

	session, err := buildSession(ctx, opts)
	if err != nil {
		return err
	}
	defer session.Shutdown()

	runCtx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, time.Duration(opts.Timeout)*time.Second)
		defer cancel()
	}

	// One shared session, so sites run one after another; concurrency lives
	// inside each orchestrator's parse pool.
	var (
		jobs     []models.ScrapedJob
		failures []siteFailure
	)
	for _, siteCfg := range configs {
		sc := scraper.New(siteCfg, session, ctx.Logger)
		siteJobs, err := sc.Run(runCtx)
		if err != nil {
			failures = append(failures, siteFailure{site: siteCfg.Site, err: err})
			continue
		}
		scraper.ApplyShortDescriptions(siteJobs)
		jobs = append(jobs, siteJobs...)
	}

	reportFailures(ctx, failures)

	var unseenJobs []models.ScrapedJob
	if strings.TrimSpace(seenPath) != "" {
		seenJobs, err := seen.ReadJobsAllowMissing(seenPath)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		unseenJobs, _ = seen.Diff(jobs, seenJobs)
	}

	outputJobs := jobs
	if opts.NewOnly {
		outputJobs = unseenJobs
	}

	if strings.TrimSpace(opts.NewOut) != "" {
		if pathsEqual(opts.NewOut, opts.Output) || pathsEqual(opts.NewOut, seenPath) {
			return fmt.Errorf("--new-out path must differ from --output and --seen")
		}
		if err := seen.WriteJobs(opts.NewOut, unseenJobs); err != nil {
			return fmt.Errorf("write --new-out: %w", err)
		}
	}

	if err := writeOutput(ctx, outputJobs, opts); err != nil {
		return err
	}

	if opts.SeenUpdate {
		seenJobs, err := seen.ReadJobsAllowMissing(seenPath)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		merged, stats := seen.Merge(seenJobs, jobs)
		if err := seen.WriteJobs(seenPath, merged); err != nil {
			return fmt.Errorf("update --seen: %w", err)
		}
		if ctx.Verbose {
			ctx.UI.Infof("Seen history updated: %d added, %d total", stats.Added, stats.TotalOut)
		}
	}

	if len(jobs) == 0 && len(failures) == len(configs) && len(configs) > 0 {
		return fmt.Errorf("all sites failed")
	}
	return nil
}

func buildSession(ctx *Context, opts ScrapeOptions) (browser.Session, error) {
	if !opts.Static {
		return browser.NewPlaywrightSession(ctx.Logger), nil
	}

	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return nil, err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}
	return browser.NewStaticSession(ctx.Logger, rotator), nil
}

func selectSites(registry map[string]scraper.SiteConfig, sitesArg string) ([]scraper.SiteConfig, error) {
	sitesArg = strings.TrimSpace(sitesArg)

	var names []string
	if sitesArg == "" || strings.EqualFold(sitesArg, "all") {
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)
	} else {
		names = scraper.NormalizeSites(strings.Split(sitesArg, ","))
	}

	configs := make([]scraper.SiteConfig, 0, len(names))
	for _, name := range names {
		siteCfg, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown site: %s", name)
		}
		configs = append(configs, siteCfg)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no sites selected")
	}
	return configs, nil
}

func writeOutput(ctx *Context, jobs []models.ScrapedJob, opts ScrapeOptions) error {
	writer := ctx.Out
	if strings.TrimSpace(opts.Output) != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	format := resolveFormat(ctx, opts)
	return export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: ctx.UI.ColorEnabled && writer == ctx.Out,
		LinkStyle:    export.LinkStyle(opts.Links),
	})
}

func resolveFormat(ctx *Context, opts ScrapeOptions) export.Format {
	switch {
	case opts.Format != "":
		return export.Format(opts.Format)
	case ctx.JSONOutput:
		return export.FormatJSON
	case ctx.PlainText:
		return export.FormatTSV
	case strings.TrimSpace(opts.Output) != "":
		return formatFromPath(opts.Output)
	default:
		return export.FormatTable
	}
}

func formatFromPath(path string) export.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.FormatJSON
	case ".csv":
		return export.FormatCSV
	case ".md":
		return export.FormatMarkdown
	case ".tsv":
		return export.FormatTSV
	default:
		return export.FormatTable
	}
}

func reportFailures(ctx *Context, failures []siteFailure) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	for _, failure := range failures {
		ctx.UI.Warnf("%s: %v", failure.site, failure.err)
	}
}

func defaultInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func pathsEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
