package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/ppongpeauk/tabbit/internal/extraction"
	"github.com/ppongpeauk/tabbit/internal/history"
	"github.com/ppongpeauk/tabbit/internal/preprocess"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Credentials commonly live in a .env during development; absence is fine
	godotenv.Load()

	fs := ff.NewFlagSet("tabbit")
	var (
		schemaPath       = fs.StringLong("schema", "", "Path to a custom JSON schema file")
		provider         = fs.StringLong("provider", "openai", "Extraction provider: 'openai' or 'gemini'")
		model            = fs.StringLong("model", "", "Model name (defaults per provider)")
		apiKey           = fs.StringLong("api-key", "", "API key (or set OPENAI_API_KEY / GEMINI_API_KEY env var)")
		baseURL          = fs.StringLong("base-url", "", "Base URL for OpenAI-compatible API (or set OPENAI_BASE_URL env var)")
		savePreprocessed = fs.StringLong("save-preprocessed", "", "Save the preprocessed image to this path")
		skipPreprocess   = fs.BoolLong("skip-preprocessing", "Skip image preprocessing step")
		maxWidth         = fs.IntLong("max-width", preprocess.DefaultMaxWidth, "Maximum width for preprocessing resize")
		output           = fs.StringLong("output", "", "Save JSON output to file (default: print to stdout)")
		dbPath           = fs.StringLong("db", "", "Record runs to this database file")
		showHistory      = fs.BoolLong("history", "List recorded runs and exit (requires --db)")
		showVersion      = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TABBIT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *showHistory {
		if *dbPath == "" {
			fmt.Fprintln(os.Stderr, "Error: --history requires --db")
			os.Exit(1)
		}
		if err := printHistory(*dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := fs.GetArgs()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: an image path is required")
		os.Exit(1)
	}
	imagePath := args[0]

	if _, err := os.Stat(imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Image file not found: %s\n", imagePath)
		os.Exit(1)
	}

	// Load JSON schema if provided
	var schema extraction.Schema
	if *schemaPath != "" {
		var err error
		schema, err = extraction.LoadSchema(*schemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize extractor based on provider
	var extractor extraction.Extractor
	var err error
	switch *provider {
	case "openai":
		extractor, err = extraction.NewOpenAI(*apiKey, *baseURL, *model)
	case "gemini":
		extractor, err = extraction.NewGemini(*apiKey, *model)
	default:
		slog.Error("Invalid provider", "provider", *provider, "valid", "openai or gemini")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer extractor.Close()

	pipeline := extraction.NewPipelineWithLimits(extractor, *maxWidth, extraction.DefaultMaxDimension)

	result, err := pipeline.Run(context.Background(), imagePath, extraction.Options{
		Schema:               schema,
		SavePreprocessedPath: *savePreprocessed,
		SkipNormalization:    *skipPreprocess,
	})
	if err != nil {
		reportError(err)
		os.Exit(1)
	}

	outputJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		if err := recordRun(*dbPath, imagePath, modelName(*provider, *model), result); err != nil {
			slog.Warn("Failed to record run", "db", *dbPath, "error", err)
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, outputJSON, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		slog.Info("Results saved", "path", *output)
	} else {
		fmt.Println(string(outputJSON))
	}
}

// reportError prints a one-line message naming the failure class.
func reportError(err error) {
	var decodeErr *preprocess.DecodeError
	var authErr *extraction.AuthError
	var transportErr *extraction.TransportError
	switch {
	case errors.As(err, &decodeErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", decodeErr)
	case errors.As(err, &authErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", authErr)
	case errors.As(err, &transportErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", transportErr)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func modelName(provider, model string) string {
	if model != "" {
		return model
	}
	if provider == "gemini" {
		return extraction.DefaultGeminiModel
	}
	return extraction.DefaultOpenAIModel
}

func recordRun(dbPath, imagePath, model string, result extraction.Result) error {
	store, err := history.NewBoltStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return store.Record(&history.Run{
		SourcePath:  imagePath,
		Model:       model,
		Result:      resultJSON,
		ParseFailed: result.Failed(),
	})
}

func printHistory(dbPath string) error {
	store, err := history.NewBoltStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List()
	if err != nil {
		return err
	}

	outputJSON, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(outputJSON))
	return nil
}
