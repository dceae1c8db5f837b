// Package main provides the linkrot CLI entrypoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"linkrot/config"
	"linkrot/crawler"
	"linkrot/result"
	"linkrot/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := config.Default()

	internal := flag.String("internal", opts.Internal, "action for same-host links: check, ignore or follow")
	external := flag.String("external", opts.External, "action for other-host links: check, ignore or follow")
	threads := flag.Int("threads", opts.Threads, "number of concurrent workers")
	timeout := flag.Int("timeout", opts.TimeoutSeconds, "per-request timeout in seconds (0 waits forever)")
	redirects := flag.Bool("redirects", opts.FollowRedirects, "follow redirects; when off, 3xx statuses are reported directly")
	printAll := flag.Bool("print-all", opts.PrintAll, "print every checked link, not just problems")
	retries := flag.Int("retries", opts.Retries, "retries for transient errors (network, 429, 5xx)")
	userAgent := flag.String("user-agent", opts.UserAgent, "user agent string")
	progress := flag.Bool("progress", false, "show interactive progress instead of plain output")
	summary := flag.Bool("summary", true, "print the statistics block after each URL")
	jsonPath := flag.String("json", "", "write all outcomes as JSON to this file")
	csvPath := flag.String("csv", "", "write all outcomes as CSV to this file")
	configPath := flag.String("config", "", "YAML configuration file")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: linkrot [flags] <url> [url ...]")
		fmt.Fprintln(os.Stderr, "Flags:")
		flag.PrintDefaults()
		return 2
	}

	if *configPath != "" {
		file, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
			return 2
		}
		file.Apply(&opts)
	}

	// Flags given explicitly on the command line win over the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "internal":
			opts.Internal = *internal
		case "external":
			opts.External = *external
		case "threads":
			opts.Threads = *threads
		case "timeout":
			opts.TimeoutSeconds = *timeout
		case "redirects":
			opts.FollowRedirects = *redirects
		case "print-all":
			opts.PrintAll = *printAll
		case "retries":
			opts.Retries = *retries
		case "user-agent":
			opts.UserAgent = *userAgent
		}
	})

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
		return 2
	}

	internalAction, err := crawler.ParseAction(opts.Internal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
		return 2
	}
	externalAction, err := crawler.ParseAction(opts.External)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
		return 2
	}

	cfg := crawler.Config{
		Threads:         opts.Threads,
		Timeout:         time.Duration(opts.TimeoutSeconds) * time.Second,
		FollowRedirects: opts.FollowRedirects,
		Policy:          crawler.Policy{Internal: internalAction, External: externalAction},
		UserAgent:       opts.UserAgent,
	}
	if opts.Retries > 0 {
		cfg.Retry = crawler.RetryPolicy{
			MaxRetries: opts.Retries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   10 * time.Second,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := &result.Printer{Out: os.Stdout, Err: os.Stderr, PrintAll: opts.PrintAll}

	exitCode := 0
	var allOutcomes []result.Outcome

	// Each input URL is an independent run: a fatal error on one input
	// aborts that input only.
	for _, rawURL := range flag.Args() {
		if ctx.Err() != nil {
			exitCode = 1
			break
		}

		cfg.StartURL = rawURL

		var report *result.Report
		var runErr error
		if *progress {
			report, runErr = runWithTUI(ctx, cfg)
		} else {
			report, runErr = runPlain(ctx, cfg, printer)
		}

		if runErr != nil {
			fmt.Fprintf(os.Stderr, "linkrot: error: %s - %v\n", rawURL, runErr)
			exitCode = 1
		}
		if report == nil {
			continue
		}

		allOutcomes = append(allOutcomes, report.Outcomes...)
		if *summary && !*progress {
			printer.PrintSummary(report.Stats)
		}
	}

	if *jsonPath != "" {
		if err := exportFile(*jsonPath, allOutcomes, result.WriteJSON); err != nil {
			fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
			exitCode = 1
		}
	}
	if *csvPath != "" {
		if err := exportFile(*csvPath, allOutcomes, result.WriteCSV); err != nil {
			fmt.Fprintf(os.Stderr, "linkrot: %v\n", err)
			exitCode = 1
		}
	}

	return exitCode
}

// runPlain executes one crawl, streaming outcomes through the printer as
// they arrive.
func runPlain(ctx context.Context, cfg crawler.Config, printer *result.Printer) (*result.Report, error) {
	events := make(chan crawler.Event, 100)
	engine, err := crawler.New(cfg, events)
	if err != nil {
		return nil, err
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for evt := range events {
			if evt.Outcome != nil {
				printer.Print(*evt.Outcome)
			}
		}
	}()

	report, err := engine.Run(ctx)
	<-drained
	return report, err
}

// runWithTUI executes one crawl inside the Bubble Tea progress UI.
func runWithTUI(ctx context.Context, cfg crawler.Config) (*result.Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan crawler.Event, 100)
	engine, err := crawler.New(cfg, events)
	if err != nil {
		return nil, err
	}

	program := tea.NewProgram(tui.NewModel(runCtx, cancel, engine, events))
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}

	model := finalModel.(tui.Model)
	return model.Report(), model.Err()
}

// exportFile writes the collected outcomes with the given encoder.
func exportFile(path string, outcomes []result.Outcome, write func(w io.Writer, outcomes []result.Outcome) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, outcomes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
