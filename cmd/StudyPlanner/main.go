package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/BTreeMap/StudyPlanner/internal/api"
	"github.com/BTreeMap/StudyPlanner/internal/genai"
	"github.com/BTreeMap/StudyPlanner/internal/planner"
	"github.com/BTreeMap/StudyPlanner/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultProvider is the GenAI backend used when none is configured
	DefaultProvider = genai.ProviderGemini
)

func main() {
	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(flag.CommandLine, os.Args[1:], config)

	// Initialize structured logger
	initializeLogger(*flags.debug)

	plannerCfg := buildPlannerConfig(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping StudyPlanner with configured modules")
	slog.Debug("Final configuration",
		"provider", plannerCfg.Provider,
		"credential_set", plannerCfg.APIKey != "",
		"model", plannerCfg.Model,
		"api_addr", *flags.apiAddr,
		"allowed_origins", *flags.allowedOrigins)
	if err := api.Run(plannerCfg, apiOpts); err != nil {
		slog.Error("StudyPlanner failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("StudyPlanner exited successfully")
}

// Config holds environment configuration
type Config struct {
	GeminiKey      string
	OpenAIKey      string
	Provider       string
	Model          string
	APIAddr        string
	AllowedOrigins string
	Debug          bool
}

// Flags holds command line flag values
type Flags struct {
	geminiKey      *string
	openaiKey      *string
	provider       *string
	model          *string
	apiAddr        *string
	allowedOrigins *string
	debug          *bool
}

// initializeLogger sets up structured logging on stdout
func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		Provider:       os.Getenv("STUDYPLANNER_PROVIDER"),
		Model:          os.Getenv("STUDYPLANNER_MODEL"),
		APIAddr:        os.Getenv("API_ADDR"),
		AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		Debug:          util.ParseBoolEnv("STUDYPLANNER_DEBUG", false),
	}

	if config.Provider == "" {
		config.Provider = DefaultProvider
		slog.Debug("No STUDYPLANNER_PROVIDER set, using default", "default_provider", config.Provider)
	}
	if config.APIAddr == "" {
		config.APIAddr = api.DefaultAddr
	}

	slog.Debug("environment variables loaded",
		"GEMINI_API_KEY_SET", config.GeminiKey != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"STUDYPLANNER_PROVIDER", config.Provider,
		"STUDYPLANNER_MODEL", config.Model,
		"API_ADDR", config.APIAddr,
		"CORS_ALLOWED_ORIGINS", config.AllowedOrigins,
		"STUDYPLANNER_DEBUG", config.Debug)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(fs *flag.FlagSet, args []string, config Config) Flags {
	flags := Flags{
		geminiKey:      fs.String("gemini-api-key", config.GeminiKey, "Gemini API key (overrides $GEMINI_API_KEY)"),
		openaiKey:      fs.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		provider:       fs.String("provider", config.Provider, "GenAI provider: gemini or openai (overrides $STUDYPLANNER_PROVIDER)"),
		model:          fs.String("model", config.Model, "model identifier, empty for the provider default (overrides $STUDYPLANNER_MODEL)"),
		apiAddr:        fs.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		allowedOrigins: fs.String("allowed-origins", config.AllowedOrigins, "comma-separated CORS origins, empty allows all (overrides $CORS_ALLOWED_ORIGINS)"),
		debug:          fs.Bool("debug", config.Debug, "enable debug logging (overrides $STUDYPLANNER_DEBUG)"),
	}

	if err := fs.Parse(args); err != nil {
		slog.Warn("failed to parse flags, using environment defaults", "error", err)
	}

	slog.Debug("flags parsed",
		"geminiKeySet", *flags.geminiKey != "",
		"openaiKeySet", *flags.openaiKey != "",
		"provider", *flags.provider,
		"model", *flags.model,
		"apiAddr", *flags.apiAddr,
		"allowedOrigins", *flags.allowedOrigins,
		"debug", *flags.debug)

	return flags
}

// buildPlannerConfig picks the credential that belongs to the selected provider.
// An empty credential leaves the planner in mock mode for the life of the process.
func buildPlannerConfig(flags Flags) planner.Config {
	provider := genai.NormalizeProvider(*flags.provider)
	cfg := planner.Config{Provider: provider, Model: *flags.model}
	switch provider {
	case genai.ProviderOpenAI:
		cfg.APIKey = *flags.openaiKey
	default:
		cfg.APIKey = *flags.geminiKey
	}
	return cfg
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if origins := util.SplitList(*flags.allowedOrigins); len(origins) > 0 {
		apiOpts = append(apiOpts, api.WithAllowedOrigins(origins...))
	}
	return apiOpts
}
