package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"jobinsights-engine/internal/config"
	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/fetch"
	"jobinsights-engine/internal/hh"
	"jobinsights-engine/internal/session"
	"jobinsights-engine/internal/ui"
)

const barTemplate = `{{ bar . "[" "=" ">" " " "]" }} {{ percent . }} {{ string . "title" }}`

// Shipped defaults, copied into the data dir on first start.
const defaultConfigPath = "config/config.yml"

func main() {
	query := flag.String("query", "", "Search text (required)")
	region := flag.String("region", "", "Region name; empty searches all regions")
	pages := flag.Int("pages", 10, "Number of result pages to analyze (1-20)")
	period := flag.String("period", "365", "Only listings published in the last N days (1-365)")
	salaryOnly := flag.Bool("salary-only", false, "Only listings with a stated salary")
	orderBy := flag.String("order", "relevance", "Sort key for the search")
	dataDir := flag.String("data-dir", ".", "Directory for config and state")
	silence := flag.Bool("silence", false, "Silence the banner")
	flag.Parse()

	ui.PrintBanner(*silence)

	if *query == "" {
		log.Fatal("query is required")
	}

	cfgPath, err := config.EnsureUserConfig(*dataDir, defaultConfigPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, warn := range validation.Warnings {
		pterm.Warning.Println(warn)
	}
	if !validation.OK() {
		log.Fatalf("config invalid: %v", validation.Errors)
	}

	client := hh.NewClient(cfg.API.BaseURL, cfg.API.UserAgent,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	spinner, _ := pterm.DefaultSpinner.Start("Loading reference data...")
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dir, err := directory.Load(loadCtx, client)
	cancel()
	if err != nil {
		spinner.Fail()
		// Directory failures are shown verbatim; nothing works without it.
		pterm.Error.Println(err)
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Reference data loaded (%s regions)",
		humanize.Comma(int64(len(dir.RegionNames())))))

	runner := session.NewRunner(cfg, dir, client)
	tok := fetch.NewCancelToken()

	// Ctrl+C asks the pipeline to stop after the current item.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		pterm.Warning.Println("Stopping after the current listing...")
		tok.Cancel()
	}()

	bar := pb.ProgressBarTemplate(barTemplate).Start(100)
	bar.Set("title", "")

	res, err := runner.Run(context.Background(), session.Params{
		Query:          *query,
		Region:         *region,
		Pages:          *pages,
		Period:         config.NormalizePeriod(*period),
		OnlyWithSalary: *salaryOnly,
		OrderBy:        *orderBy,
	}, tok, barNotifier{bar})
	bar.Finish()
	if err != nil {
		pterm.Error.Printfln("Search failed: %v", err)
		os.Exit(1)
	}

	switch res.Outcome {
	case session.OutcomeNoResults:
		pterm.Warning.Println("No results found.")
	case session.OutcomeCancelled:
		pterm.Info.Printfln("Search stopped: %d rows kept in %s", res.Rows, res.File)
	case session.OutcomeAborted:
		pterm.Error.Printfln("Search aborted upstream (%v): %d rows kept in %s",
			res.Err, res.Rows, res.File)
	default:
		pterm.Success.Printfln("File created, search complete: %s (%d rows of %s found)",
			res.File, res.Rows, humanize.Comma(int64(res.Found)))
	}
}

// barNotifier feeds session progress into the terminal progress bar.
type barNotifier struct {
	bar *pb.ProgressBar
}

func (b barNotifier) Progress(percent int, title string) {
	b.bar.SetCurrent(int64(percent))
	b.bar.Set("title", title)
}

func (b barNotifier) Done(res session.Result) {
	if res.Outcome == session.OutcomeCompleted {
		b.bar.SetCurrent(100)
	}
}
