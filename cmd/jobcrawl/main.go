package main

import (
	"fmt"
	"os"

	"go-jobcrawl/internal/config"

	"github.com/spf13/cobra"
)

type flags struct {
	configPath  string
	site        string
	keywords    string
	output      string
	headless    bool
	session     string
	browserPath string
	maxPages    int
	cookies     string
	yes         bool
	manual      bool
	listen      string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "jobcrawl",
		Short: "Crawl job listings from Liepin, Boss or Zhaopin into a spreadsheet",
		Long: `jobcrawl drives a real browser through a job site's search results,
opens every posting, and keeps a sorted, de-duplicated spreadsheet of
company, salary, location and description up to date after each page.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f.yes)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file (default "+config.DefaultPath+", optional)")
	fl.StringVar(&f.site, "site", "", "site to crawl: liepin, boss or zhaopin")
	fl.StringVar(&f.keywords, "keywords", "", "search keywords, comma separated")
	fl.StringVar(&f.output, "output", "", "output file (.xlsx, .csv or .json)")
	fl.BoolVar(&f.headless, "headless", false, "run the browser without a window")
	fl.StringVar(&f.session, "session", "", "session id, selects the browser profile under user_data/")
	fl.StringVar(&f.browserPath, "browser-path", "", "chrome/chromium executable to use instead of the bundled one")
	fl.IntVar(&f.maxPages, "max-pages", 0, "listing pages to crawl, 0 for all")
	fl.StringVar(&f.cookies, "cookies", "", "JSON cookie export to load into the browser")
	fl.BoolVarP(&f.yes, "yes", "y", false, "do not wait for Enter before crawling")
	fl.BoolVar(&f.manual, "manual", false, "ask before every page: Enter crawls it, n turns the page, q stops")
	fl.StringVar(&f.listen, "listen", "", "control server address, e.g. 127.0.0.1:8080; POST /ready is unauthenticated, so do not expose it beyond trusted hosts")
	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("site") {
		cfg.Site = f.site
	}
	if changed("keywords") {
		cfg.Keywords = config.SplitKeywords(f.keywords)
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("headless") {
		cfg.Headless = f.headless
	}
	if changed("session") {
		cfg.SessionID = f.session
	}
	if changed("browser-path") {
		cfg.BrowserPath = f.browserPath
	}
	if changed("max-pages") {
		if f.maxPages < 0 {
			return fmt.Errorf("%w: --max-pages must be >= 0", config.ErrInvalidSession)
		}
		cfg.MaxPages = f.maxPages
	}
	if changed("cookies") {
		cfg.CookiesPath = f.cookies
	}
	if changed("manual") {
		cfg.Manual = f.manual
	}
	if changed("listen") {
		cfg.Listen = f.listen
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
