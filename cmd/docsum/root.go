package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docsum/internal/config"
	"docsum/internal/domain"
	"docsum/internal/extract"
	"docsum/internal/extract/tesseract"
	"docsum/internal/logging"
	"docsum/internal/service"
	"docsum/internal/store/memory"
	"docsum/internal/summarizer"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "docsum",
	Short:         "Summarize PDFs and images",
	Long:          "docsum extracts text from PDF and image documents and produces a short extractive summary with highlighted keywords.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (uses ./config.yaml or ~/.config/docsum/config.yaml if not provided)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// app holds the assembled components shared by every subcommand.
type app struct {
	cfg     *config.AppConfig
	log     *logrus.Logger
	closer  io.Closer
	service *service.SummaryService
}

func (a *app) Close() error { return a.closer.Close() }

// setup loads configuration and wires the summary service. quiet keeps log
// output off the terminal for full-screen commands.
func setup(quiet bool) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, closer := logging.New(cfg.Log, quiet)

	svc, err := assemble(cfg, log)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, closer: closer, service: svc}, nil
}

func assemble(cfg *config.AppConfig, log *logrus.Logger) (*service.SummaryService, error) {
	var ocr extract.OCREngine
	switch cfg.Extractor.OCR.Engine {
	case "tesseract", "":
		ocr = tesseract.New(tesseract.Config{
			Languages: cfg.Extractor.OCR.Languages,
			DPI:       cfg.Extractor.OCR.DPI,
			Variables: cfg.Extractor.OCR.Variables,
		})
	case "none":
		// images are rejected at extraction time
	default:
		return nil, fmt.Errorf("unknown ocr engine: %s", cfg.Extractor.OCR.Engine)
	}
	ext := extract.New(ocr, extract.Options{
		MaxBytes:         cfg.MaxFileBytes(),
		NormalizeUnicode: cfg.Extractor.NormalizeUnicode,
	}, log.WithField("component", "extract"))

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "heuristic", "":
		sum = summarizer.New()
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	st := memory.NewStorage(cfg.Store.MaxDocuments)
	length := domain.ParseLength(cfg.Summarizer.Length)
	return service.NewSummaryService(ext, sum, st, length, log.WithField("component", "service")), nil
}
