package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tally/internal/common"
	"github.com/ternarybob/tally/internal/interfaces"
	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/analyzer"
	"github.com/ternarybob/tally/internal/services/ingest"
	"github.com/ternarybob/tally/internal/services/patterns"
	"github.com/ternarybob/tally/internal/services/scheduler"
	"github.com/ternarybob/tally/internal/services/tables"
	"github.com/ternarybob/tally/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	inputFile    = flag.String("input", "", "Document payload to analyze (JSON file)")
	outputFile   = flag.String("out", "", "Write the summary to this file instead of stdout")
	watchMode    = flag.Bool("watch", false, "Watch the configured inbox directory for payloads")
	persist      = flag.Bool("store", false, "Persist analysis results to the local store")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Tally version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("tally.toml"); err == nil {
			configFiles = append(configFiles, "tally.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)

	common.PrintBanner(common.LoadVersionFromFile())

	logger.Info().
		Str("environment", config.Environment).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	analyzerService, err := buildAnalyzer(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize analyzer")
		os.Exit(1)
	}
	ingestService := ingest.NewService(logger)

	switch {
	case *watchMode:
		if err := runWatch(config, ingestService, analyzerService, logger); err != nil {
			logger.Fatal().Err(err).Msg("Watch mode failed")
			os.Exit(1)
		}
	case *inputFile != "":
		if err := runAnalyze(config, ingestService, analyzerService, *inputFile, *outputFile, *persist, logger); err != nil {
			logger.Fatal().Err(err).Str("input", *inputFile).Msg("Analysis failed")
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: tally -input <payload.json> [-out <file>] [-store] | tally -watch")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

// buildAnalyzer wires the analyzer, applying keyword and threshold
// overrides when configured.
func buildAnalyzer(config *common.Config, logger arbor.ILogger) (*analyzer.Service, error) {
	var opts analyzer.Options

	if config.Engine.KeywordsFile != "" {
		keywords, err := tables.LoadKeywords(config.Engine.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load keywords file %s: %w", config.Engine.KeywordsFile, err)
		}
		logger.Info().Str("file", config.Engine.KeywordsFile).Msg("Loaded keyword overrides")
		opts.Keywords = keywords
	}

	if config.Engine.MinPortfolioValue > 0 || config.Engine.MinLargestCellValue > 0 {
		thresholds := patterns.DefaultThresholds()
		if config.Engine.MinPortfolioValue > 0 {
			thresholds.MinPortfolioValue = config.Engine.MinPortfolioValue
		}
		if config.Engine.MinLargestCellValue > 0 {
			thresholds.MinLargestCellValue = config.Engine.MinLargestCellValue
		}
		opts.Thresholds = &thresholds
	}

	return analyzer.NewServiceWithOptions(opts, logger), nil
}

// runAnalyze processes a single payload file and emits the summary.
func runAnalyze(config *common.Config, ingestService *ingest.Service, analyzerService *analyzer.Service, inputPath, outputPath string, store bool, logger arbor.ILogger) error {
	summary, doc, err := analyzeFile(ingestService, analyzerService, inputPath, logger)
	if err != nil {
		return err
	}

	if store {
		manager, err := badger.NewManager(logger, &config.Storage.Badger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer manager.Close()

		if err := saveSummary(manager.AnalysisStorage(), doc, summary); err != nil {
			return err
		}
	}

	output, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info().Str("file", outputPath).Msg("Summary written")
		return nil
	}

	fmt.Println(string(output))
	return nil
}

// runWatch polls the inbox directory for payload files, analyzing and
// persisting each one once. Processed files are renamed with a .done
// suffix so a restart does not re-analyze them.
func runWatch(config *common.Config, ingestService *ingest.Service, analyzerService *analyzer.Service, logger arbor.ILogger) error {
	manager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer manager.Close()

	retention := scheduler.NewService(manager, config.Watch.RetentionDuration(), logger)
	if err := retention.Start(config.Watch.SweepSchedule); err != nil {
		return fmt.Errorf("failed to start retention scheduler: %w", err)
	}
	defer retention.Stop()

	if err := os.MkdirAll(config.Watch.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	interval := config.Watch.IntervalDuration()
	logger.Info().
		Str("dir", config.Watch.Dir).
		Str("interval", interval.String()).
		Msg("Watching for document payloads")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			sweepInbox(config.Watch.Dir, ingestService, analyzerService, manager.AnalysisStorage(), logger)
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("Shutting down")
			return nil
		}
	}
}

// sweepInbox analyzes every pending .json payload in dir.
func sweepInbox(dir string, ingestService *ingest.Service, analyzerService *analyzer.Service, storage interfaces.AnalysisStorage, logger arbor.ILogger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("Failed to read watch directory")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		summary, doc, err := analyzeFile(ingestService, analyzerService, path, logger)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to analyze payload")
			// Rename so a bad payload is not retried forever
			if renameErr := os.Rename(path, path+".failed"); renameErr != nil {
				logger.Warn().Err(renameErr).Str("file", path).Msg("Failed to mark payload as failed")
			}
			continue
		}

		if err := saveSummary(storage, doc, summary); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to persist analysis")
			continue
		}

		if err := os.Rename(path, path+".done"); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to mark payload as done")
		}

		logger.Info().
			Str("file", entry.Name()).
			Str("document_id", doc.ID).
			Msg("Payload analyzed")
	}
}

// analyzeFile loads a payload, prepares it and runs the analyzer.
func analyzeFile(ingestService *ingest.Service, analyzerService *analyzer.Service, path string, logger arbor.ILogger) (*models.FinancialSummary, *models.FinancialDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var doc models.FinancialDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	prepared, err := ingestService.PrepareDocument(&doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare document: %w", err)
	}

	summary, err := analyzerService.Analyze(prepared)
	if summary == nil {
		return nil, nil, err
	}
	if err != nil {
		// Partial result: some assembly steps failed but the rest of the
		// summary is still usable.
		logger.Warn().Err(err).Str("document_id", prepared.ID).Msg("Analysis completed with step errors")
	}

	return summary, prepared, nil
}

// saveSummary stores an analysis result keyed by document ID.
func saveSummary(storage interfaces.AnalysisStorage, doc *models.FinancialDocument, summary *models.FinancialSummary) error {
	record := &models.AnalysisRecord{
		DocumentID:   doc.ID,
		DocumentType: doc.DocumentType,
		Summary:      *summary,
	}
	if err := storage.SaveAnalysis(record); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}
