package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/orchestrate"
	"github.com/Sriram-PR/bizdna/pkg/output"
	"github.com/Sriram-PR/bizdna/pkg/pipeline"
	"github.com/Sriram-PR/bizdna/pkg/render"
	"github.com/Sriram-PR/bizdna/pkg/vision"
)

const version = "0.4.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		runExtract(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "version":
		fmt.Printf("bizdna %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `bizdna - Business identity extraction

Usage:
  bizdna <command> [options]

Commands:
  extract     Crawl one or more business sites and write their Business DNA
  validate    Validate configuration file
  version     Show version info

Run 'bizdna <command> -h' for command-specific help.`)
}

// extractOptions are the extract flags; empty strings keep the config file's value
type extractOptions struct {
	url        string
	urls       string
	name       string
	configFile string
	renderer   string
	format     string
	outDir     string
	logLevel   string
	pprofAddr  string
}

// runExtract handles the extract subcommand
func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	opts := extractOptions{}
	fs.StringVar(&opts.url, "url", "", "Site URL to extract (single site)")
	fs.StringVar(&opts.urls, "urls", "", "Comma-separated site URLs, each optionally 'url|Business Name'")
	fs.StringVar(&opts.name, "name", "", "Business name hint for -url")
	fs.StringVar(&opts.configFile, "config", "", "Path to YAML config file (defaults apply when empty)")
	fs.StringVar(&opts.renderer, "renderer", "", "Renderer override: chrome or http")
	fs.StringVar(&opts.format, "format", "", "Output format override: json or yaml")
	fs.StringVar(&opts.outDir, "out", "", "Output directory override")
	fs.StringVar(&opts.logLevel, "loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	fs.StringVar(&opts.pprofAddr, "pprof", "", "pprof address, e.g. localhost:6060 (disabled by default)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bizdna extract [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bizdna extract -url https://joes-bakery.com -name \"Joe's Bakery\"\n")
		fmt.Fprintf(os.Stderr, "  bizdna extract -urls https://a.example,https://b.example -renderer http\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(opts.logLevel)
	startPprof(opts.pprofAddr, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("PANIC in signal handler: %v", r)
			}
		}()
		sig := <-sigChan
		log.Warnf("Received signal: %v. Initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig = <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	os.Exit(executeExtract(ctx, opts, log, os.Stdout))
}

// executeExtract runs the extraction and returns the exit code: 0 when every site produced
// a record, 1 otherwise
func executeExtract(ctx context.Context, opts extractOptions, log *logrus.Logger, stdout io.Writer) int {
	targets, err := resolveTargets(opts)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	appCfg, err := loadConfig(opts.configFile)
	if err != nil {
		log.Errorf("Config error: %v", err)
		return 1
	}
	applyOverrides(appCfg, opts)
	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Errorf("Config error: %v", err)
		return 1
	}
	logAppConfig(appCfg, log)

	writer, err := output.NewWriter(appCfg.OutputDir, appCfg.OutputFormat, logrus.NewEntry(log))
	if err != nil {
		log.Errorf("Output error: %v", err)
		return 1
	}

	deps, closeDeps, err := buildDeps(appCfg, log)
	if err != nil {
		log.Errorf("Failed to initialize components: %v", err)
		return 1
	}
	defer closeDeps()

	p, err := pipeline.New(appCfg, deps, logrus.NewEntry(log))
	if err != nil {
		log.Errorf("Failed to initialize pipeline: %v", err)
		return 1
	}

	results := orchestrate.NewOrchestrator(p, appCfg.MaxConcurrentSites, logrus.NewEntry(log)).Run(ctx, targets)

	exitCode := 0
	for _, r := range results {
		if !r.Success {
			exitCode = 1
			if errors.Is(r.Error, context.Canceled) {
				fmt.Fprintf(stdout, "CANCELLED: %s\n", r.Target.URL)
			} else {
				fmt.Fprintf(stdout, "FAILED: %s: could not extract from this source: %v\n", r.Target.URL, r.Error)
			}
			continue
		}
		path, err := writer.Write(r.DNA)
		if err != nil {
			log.Errorf("Failed to write output for '%s': %v", r.Target.URL, err)
			exitCode = 1
			continue
		}
		fmt.Fprintf(stdout, "OK: %s -> %s (%d pages, sparsity %s)\n",
			r.Target.URL, path, r.Pages, r.DNA.Metadata.ContentSparsity)
	}
	return exitCode
}

// resolveTargets turns -url/-name or -urls into the site list
func resolveTargets(opts extractOptions) ([]orchestrate.Target, error) {
	var targets []orchestrate.Target
	switch {
	case opts.url != "" && opts.urls != "":
		return nil, errors.New("use either -url or -urls, not both")
	case opts.url != "":
		targets = []orchestrate.Target{{URL: strings.TrimSpace(opts.url), NameHint: strings.TrimSpace(opts.name)}}
	case opts.urls != "":
		targets = orchestrate.ParseTargets(opts.urls)
	}
	if len(targets) == 0 {
		return nil, errors.New("-url or -urls is required")
	}
	if err := orchestrate.ValidateTargets(targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// applyOverrides copies non-empty CLI flags over the config file values
func applyOverrides(appCfg *config.AppConfig, opts extractOptions) {
	if opts.renderer != "" {
		appCfg.Renderer.Kind = opts.renderer
	}
	if opts.format != "" {
		appCfg.OutputFormat = opts.format
	}
	if opts.outDir != "" {
		appCfg.OutputDir = opts.outDir
	}
}

// buildDeps creates the shared HTTP stack, the renderer and the vision client. The returned
// func releases the renderer.
func buildDeps(appCfg *config.AppConfig, log *logrus.Logger) (pipeline.Deps, func(), error) {
	entry := logrus.NewEntry(log)
	httpClient := fetch.NewClient(appCfg.HTTPClientSettings, entry)
	fetcher := fetch.NewFetcher(httpClient, appCfg, entry)
	rateLimiter := fetch.NewRateLimiter(appCfg.Crawl.DelayPerHost, entry)

	deps := pipeline.Deps{Fetcher: fetcher, RateLimiter: rateLimiter}
	closeFn := func() {}

	switch appCfg.Renderer.Kind {
	case "http":
		deps.Renderer = render.NewHTTPRenderer(fetcher, rateLimiter, appCfg.Crawl.DelayPerHost, entry.WithField("component", "renderer"))
	default:
		chrome, err := render.NewChromeRenderer(appCfg.Renderer, appCfg.UserAgent, entry.WithField("component", "renderer"))
		if err != nil {
			return deps, closeFn, err
		}
		deps.Renderer = chrome
		closeFn = func() {
			if err := chrome.Close(); err != nil {
				log.Warnf("Closing chrome: %v", err)
			}
		}
	}

	if appCfg.Vision.Provider == "anthropic" {
		if key := appCfg.Vision.APIKey(); key != "" {
			deps.Vision = vision.NewAnthropicClient(key, appCfg.Vision.Model, appCfg.Vision.MaxTokens)
		} else {
			log.Warnf("Vision enrichment disabled: %s is not set", appCfg.Vision.APIKeyEnv)
		}
	}
	return deps, closeFn, nil
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bizdna validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doValidate(*configFile, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "OK: renderer=%s vision=%s store=%s max_pages=%d max_images=%d\n",
		appCfg.Renderer.Kind, appCfg.Vision.Provider, appCfg.VisitedStore,
		appCfg.Content.MaxPages, appCfg.Content.MaxImagesForVision)
	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}

// loadConfig loads the config file; an empty path yields an all-defaults config
func loadConfig(path string) (*config.AppConfig, error) {
	return config.Load(path)
}

// setupLogger creates a configured logrus.Logger with the given log level.
func setupLogger(logLevelStr string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
		log.Debugf("Setting log level to: %s", level.String())
	}

	return log
}

// startPprof starts the pprof HTTP server if addr is non-empty.
func startPprof(addr string, log *logrus.Logger) {
	if addr != "" {
		go func() {
			log.Infof("Starting pprof server at http://%s/debug/pprof/", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Errorf("pprof server error: %v", err)
			}
		}()
	}
}

// logAppConfig logs the effective configuration
func logAppConfig(appCfg *config.AppConfig, log *logrus.Logger) {
	c := appCfg.Content
	log.Infof("Config Content: MaxPages:%d, MaxDepth:%d, PageTimeout:%v, CrawlTimeout:%v, MaxImages:%d",
		c.MaxPages, c.MaxDepth, c.PageTimeout, c.CrawlTimeout, c.MaxImagesForVision)
	log.Infof("Config Vision: Provider:%s, Model:%s, OCR:%t, Colors:%t, Captions:%t, Concurrency:%d",
		appCfg.Vision.Provider, appCfg.Vision.Model, c.OCREnabled(), c.ColorExtractionEnabled(), c.CaptionsEnabled(),
		appCfg.Vision.Concurrency)
	log.Infof("Config Crawl: Renderer:%s, Robots:%t, Sitemap:%t, Delay:%v, Store:%s",
		appCfg.Renderer.Kind, appCfg.Crawl.RobotsRespected(), appCfg.Crawl.SitemapEnabled(),
		appCfg.Crawl.DelayPerHost, appCfg.VisitedStore)
	log.Infof("Config Retries: Max:%d, InitialDelay:%v, MaxDelay:%v, MaxRequests:%d, Sites:%d",
		appCfg.MaxRetries, appCfg.InitialRetryDelay, appCfg.MaxRetryDelay, appCfg.MaxRequests, appCfg.MaxConcurrentSites)
	log.Infof("Config Output: Dir:%s, Format:%s", appCfg.OutputDir, appCfg.OutputFormat)
}
