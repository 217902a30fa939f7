package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "approvalcli/internal/errors"
	"approvalcli/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by the analyzer
const EnvPrefix = "APPROVAL"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
}

// InputConfig locates the deposit attempts workbook
type InputConfig struct {
	Path  string `yaml:"path" envconfig:"PATH"`
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// AnalysisConfig holds the parameters of the business questions and the factor model
type AnalysisConfig struct {
	// Distinct customers and approved amount
	CustomerMonth  int     `yaml:"customer_month" envconfig:"CUSTOMER_MONTH" validate:"min=1,max=12"`
	CustomerYear   int     `yaml:"customer_year" envconfig:"CUSTOMER_YEAR" validate:"min=1900"`
	CustomerAmount float64 `yaml:"customer_amount" envconfig:"CUSTOMER_AMOUNT" validate:"gt=0"`

	// Top bank approval ranking, amounts in [BankLow, BankHigh)
	BankLow  float64 `yaml:"bank_low" envconfig:"BANK_LOW" validate:"gte=0"`
	BankHigh float64 `yaml:"bank_high" envconfig:"BANK_HIGH" validate:"gtfield=BankLow"`
	BankYear int     `yaml:"bank_year" envconfig:"BANK_YEAR" validate:"min=1900"`
	TopBanks int     `yaml:"top_banks" envconfig:"TOP_BANKS" validate:"min=1"`

	// Causal factor investigation
	EarlierQuarter string  `yaml:"earlier_quarter" envconfig:"EARLIER_QUARTER" validate:"required"`
	LaterQuarter   string  `yaml:"later_quarter" envconfig:"LATER_QUARTER" validate:"required"`
	Neighbors      int     `yaml:"neighbors" envconfig:"NEIGHBORS" validate:"min=1"`
	Seed           int64   `yaml:"seed" envconfig:"SEED"`
	Regularization float64 `yaml:"regularization" envconfig:"REGULARIZATION" validate:"gt=0"`
	MaxIterations  int     `yaml:"max_iterations" envconfig:"MAX_ITERATIONS" validate:"min=1"`
	Tolerance      float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls tracing and the run metrics textfile
type TelemetryConfig struct {
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// OutputConfig controls the console report and the optional export
type OutputConfig struct {
	Dir     string `yaml:"dir" envconfig:"DIR"`
	NoColor bool   `yaml:"no_color" envconfig:"NO_COLOR"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and the quarter pair
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	earlier, later, err := c.Analysis.Periods()
	if err != nil {
		return err
	}
	if !earlier.Before(later) {
		return fmt.Errorf("earlier quarter %s must precede later quarter %s", earlier, later)
	}
	return nil
}

// Periods parses the configured quarter pair
func (a AnalysisConfig) Periods() (earlier, later domain.Quarter, err error) {
	if earlier, err = domain.ParseQuarter(a.EarlierQuarter); err != nil {
		return domain.Quarter{}, domain.Quarter{}, fmt.Errorf("earlier quarter: %w", err)
	}
	if later, err = domain.ParseQuarter(a.LaterQuarter); err != nil {
		return domain.Quarter{}, domain.Quarter{}, fmt.Errorf("later quarter: %w", err)
	}
	return earlier, later, nil
}

// InputPath returns the configured workbook, falling back to the default
// location next to the executable
func (c *Config) InputPath(paths *Paths) string {
	if c.Input.Path != "" {
		return c.Input.Path
	}
	return paths.DefaultInput
}

// LogFilePath returns the configured log file, falling back to
// logs/analyzer.log next to the executable
func (c *Config) LogFilePath(paths *Paths) string {
	if c.Logging.FilePath != "" {
		return c.Logging.FilePath
	}
	return paths.GetLogPath(DefaultLogFile)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			CustomerMonth:  9,
			CustomerYear:   2021,
			CustomerAmount: 50,
			BankLow:        150,
			BankHigh:       1000,
			BankYear:       2021,
			TopBanks:       10,
			EarlierQuarter: "2020Q4",
			LaterQuarter:   "2021Q3",
			Neighbors:      3,
			Seed:           0,
			Regularization: 1.0,
			MaxIterations:  100,
			Tolerance:      1e-8,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "",
		},
		Telemetry: TelemetryConfig{
			Environment:   "development",
			TraceExporter: "none",
		},
	}
}
