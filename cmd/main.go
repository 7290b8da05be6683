// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"invoice-scan/internal/analyzer"
	"invoice-scan/internal/config"
	"invoice-scan/internal/dateparse"
	"invoice-scan/internal/extract"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/learn"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/observability"
	"invoice-scan/internal/preprocess"
	"invoice-scan/internal/version"

	"invoice-scan/internal/formatters"
	_ "invoice-scan/internal/formatters/json"
	_ "invoice-scan/internal/formatters/text"
	_ "invoice-scan/internal/formatters/yaml"

	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	inputFile     string
	outputFormat  string
	language      string
	configFile    string
	verbose       bool
	debug         bool
	noColor       bool
	showVersion   bool
	learnStore    string
	confirmAmount string
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if flags.inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfiguration(flags.configFile)
	format, language, noColor := resolveConfiguration(cfg, flags)

	// Disable color when stdout is not a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}

	doc, err := preprocess.Load(flags.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := analyzer.New()
	applyConfig(engine, cfg)

	if flags.debug || os.Getenv("INVOICE_SCAN_DEBUG") != "" {
		observer := observability.NewStandardObserver(observability.ObservabilityDebug, os.Stderr)
		observer.DebugObserver = observability.NewDebugObserver(os.Stderr)
		engine.SetObserver(observer)
	}

	store := openKeywordStore(cfg, flags)
	if store != nil {
		engine.SetKeywordStore(store)
	}

	result, err := engine.Analyze(doc.Text, doc.Lines, language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flags.confirmAmount != "" {
		recordAmountCorrection(store, result, flags.confirmAmount)
	}

	output, err := formatters.Export(format, result, formatters.FormatterOptions{
		Verbose: flags.verbose,
		NoColor: noColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

func parseFlags() *configFlags {
	flags := &configFlags{}
	flag.StringVar(&flags.inputFile, "file", "", "Input file: plain text, PDF, or OCR JSON dump")
	flag.StringVar(&flags.outputFormat, "format", "", "Output format: text, json, yaml")
	flag.StringVar(&flags.language, "lang", "", "Document language: auto, pl, en")
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file")
	flag.BoolVar(&flags.verbose, "verbose", false, "Show full candidate lists")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug observability output")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.StringVar(&flags.learnStore, "learn-store", "", "Path to the learned-keyword store")
	flag.StringVar(&flags.confirmAmount, "confirm-amount", "", "Record a user-confirmed amount value for keyword learning")
	flag.Parse()
	return flags
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration resolves final values from config file and flags
func resolveConfiguration(cfg *config.Config, flags *configFlags) (format string, language locale.Language, noColor bool) {
	format = "text"
	if cfg.Defaults.Format != "" {
		format = cfg.Defaults.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		format = flags.outputFormat
	}

	lang := cfg.Defaults.Language
	if isFlagSet("lang") && flags.language != "" {
		lang = flags.language
	}
	switch lang {
	case "pl":
		language = locale.Polish
	case "en":
		language = locale.English
	default:
		language = locale.Unknown
	}

	noColor = cfg.Defaults.NoColor
	if isFlagSet("no-color") {
		noColor = flags.noColor
	}

	return format, language, noColor
}

// applyConfig pushes the tunable thresholds from the config file into the engine
func applyConfig(engine *analyzer.Analyzer, cfg *config.Config) {
	tolerances := layout.DefaultTolerances()
	tolerances.RowOverlap = cfg.Layout.RowOverlap
	tolerances.ColumnOverlap = cfg.Layout.ColumnOverlap
	tolerances.SameColumnX = cfg.Layout.SameColumnX
	engine.SetTolerances(tolerances)

	weights := extract.DefaultWeights()
	weights.TextOnlyScale = cfg.Scoring.TextOnlyScale
	engine.SetWeights(weights)

	dateOpts := dateparse.DefaultOptions()
	dateOpts.PastWindow = time.Duration(cfg.Dates.PastYears) * 365 * 24 * time.Hour
	dateOpts.FutureWindow = time.Duration(cfg.Dates.FutureYears) * 365 * 24 * time.Hour
	engine.SetDateOptions(dateOpts)
}

// openKeywordStore opens the learned-keyword store when enabled
func openKeywordStore(cfg *config.Config, flags *configFlags) *learn.FileStore {
	path := cfg.Learning.Path
	if flags.learnStore != "" {
		path = flags.learnStore
	}
	if path == "" || (!cfg.Learning.Enabled && flags.learnStore == "") {
		return nil
	}

	store, err := learn.NewFileStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open keyword store: %v\n", err)
		return nil
	}
	return store
}

// recordAmountCorrection locates the confirmed value in the source text and
// persists the labels preceding it as learned amount keywords.
func recordAmountCorrection(store *learn.FileStore, result *analyzer.Result, confirmed string) {
	if store == nil {
		fmt.Fprintln(os.Stderr, "Warning: -confirm-amount needs a keyword store (-learn-store or config)")
		return
	}

	index, matched, ok := analyzer.LocateValue(result.RawText, confirmed)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: confirmed value %q not found in document\n", confirmed)
		return
	}

	// Harvest the label text on the same line, before the value.
	lineStart := strings.LastIndexByte(result.RawText[:index], '\n') + 1
	label := strings.TrimSpace(result.RawText[lineStart:index])
	label = strings.TrimRight(label, ":- \t")
	if label == "" {
		fmt.Fprintf(os.Stderr, "Warning: no label found before %q\n", matched)
		return
	}

	if err := store.Record(string(extract.FieldAmount), label, 15); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot record keyword: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Recorded amount keyword %q\n", label)
}

// isFlagSet checks whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
