package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evidentia/threadloom/pkg/config"
	"github.com/evidentia/threadloom/pkg/emlimport"
	"github.com/evidentia/threadloom/pkg/loadfile"
	"github.com/evidentia/threadloom/pkg/mailthread"
	"github.com/evidentia/threadloom/pkg/report"
)

func main() {
	cfg, err := config.LoadConfig(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	defaultSnippet := 0
	if cfg.SnippetLen != "" {
		if n, err := strconv.Atoi(cfg.SnippetLen); err == nil {
			defaultSnippet = n
		}
	}

	inputPath := flag.String("input", "", "Path to a CSV load file or a directory of .eml files (required)")
	format := flag.String("format", "", "Input format: csv or eml (default: eml for directories, csv otherwise)")
	outputFile := flag.String("output", cfg.Output, "Path to the output report (.json or .jsonl)")
	threadID := flag.String("thread", "", "Print a single thread as a text outline instead of writing a report")
	orgDomain := flag.String("org-domain", cfg.OrgDomain, "Organization domain for external-sender detection (eml input)")
	snippetLen := flag.Int("snippet", defaultSnippet, "Body snippet length in outline output (negative disables snippets)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	dryRun := flag.Bool("dry-run", false, "Process the input without writing the report")
	help := flag.Bool("help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "threadloom - email thread reconstruction for e-discovery exports\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads a tabular load file (CSV) or a directory of .eml files, rebuilds\n")
		fmt.Fprintf(os.Stderr, "conversation threads, and emits per-thread reply trees and statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s -input export.csv -output threads.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input export.csv -thread t1 -snippet 120\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input ./mailbox -format eml -org-domain acme.com -output threads.jsonl\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if *threadID == "" && !*dryRun && *outputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -output is required unless -thread or -dry-run is used\n\n")
		flag.Usage()
		os.Exit(1)
	}

	level := log.InfoLevel
	if parsed, err := log.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}
	if *verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})

	fi, err := os.Stat(*inputPath)
	if err != nil {
		logger.Error("Input does not exist", "input", *inputPath)
		os.Exit(1)
	}

	resolved := strings.ToLower(*format)
	if resolved == "" {
		if fi.IsDir() {
			resolved = "eml"
		} else {
			resolved = "csv"
		}
	}

	logger.Info("Starting thread reconstruction",
		"input", *inputPath,
		"format", resolved,
		"dry-run", *dryRun)

	var rows []mailthread.Row
	switch resolved {
	case "csv":
		reader, err := loadfile.NewReader(logger)
		if err != nil {
			logger.Error("Failed to create load file reader", "error", err)
			os.Exit(1)
		}
		rows, err = reader.ReadFile(*inputPath)
		if err != nil {
			logger.Error("Failed to read load file", "error", err)
			os.Exit(1)
		}
	case "eml":
		importer, err := emlimport.NewImporter(logger, emlimport.Options{OrgDomain: *orgDomain})
		if err != nil {
			logger.Error("Failed to create eml importer", "error", err)
			os.Exit(1)
		}
		rows, err = importer.ImportDirectory(context.Background(), *inputPath)
		if err != nil {
			logger.Error("Failed to import eml directory", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("Unknown input format", "format", resolved)
		os.Exit(1)
	}

	processor, err := mailthread.NewProcessor(logger)
	if err != nil {
		logger.Error("Failed to create processor", "error", err)
		os.Exit(1)
	}

	count, err := processor.Load(rows)
	if err != nil {
		logger.Error("Failed to load rows", "error", err)
		os.Exit(1)
	}
	threads := processor.GroupByThreads()
	logger.Info("Reconstructed threads", "messages", count, "threads", threads)

	if *threadID != "" {
		tree, err := processor.BuildThreadTree(*threadID)
		if err != nil {
			logger.Error("Failed to build thread tree", "thread", *threadID, "error", err)
			os.Exit(1)
		}
		stats, err := processor.GenerateThreadStats(*threadID)
		if err != nil {
			logger.Error("Failed to compute thread stats", "thread", *threadID, "error", err)
			os.Exit(1)
		}

		if err := report.RenderOutline(os.Stdout, tree, report.OutlineOptions{SnippetLen: *snippetLen}); err != nil {
			logger.Error("Failed to render outline", "error", err)
			os.Exit(1)
		}
		fmt.Printf("max depth %d, branch count %d, forwards %d, replies %d, external %d\n",
			stats.MaxDepth, stats.BranchCount, stats.ForwardCount, stats.ReplyCount, stats.ExternalCount)
		return
	}

	reports, err := report.Collect(processor)
	if err != nil {
		logger.Error("Failed to collect thread reports", "error", err)
		os.Exit(1)
	}
	summary := report.Summarize(reports)

	if *verbose || *dryRun {
		for i, r := range reports {
			if i >= 5 {
				logger.Info("... and more threads (showing first 5 only)", "total", len(reports))
				break
			}
			logger.Info("Thread",
				"id", r.ThreadID,
				"messages", r.Tree.TotalEmails,
				"maxDepth", r.Stats.MaxDepth,
				"participants", r.Stats.ParticipantCount)
		}
	}

	if *dryRun {
		logger.Info("Dry-run mode: skipping report write")
	} else {
		ext := strings.ToLower(filepath.Ext(*outputFile))
		if ext != ".json" && ext != ".jsonl" {
			logger.Warn("Output file should end in .json or .jsonl, adding .json", "file", *outputFile)
			*outputFile += ".json"
		}

		if dir := filepath.Dir(*outputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Error("Failed to create output directory", "dir", dir, "error", err)
				os.Exit(1)
			}
		}

		if err := report.Save(*outputFile, reports, summary); err != nil {
			logger.Error("Failed to write report", "error", err)
			os.Exit(1)
		}
		logger.Info("Report written", "output", *outputFile)
	}

	logger.Info("Summary statistics:",
		"total_threads", summary.TotalThreads,
		"total_messages", summary.TotalMessages)
}
