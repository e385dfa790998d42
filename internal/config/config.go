package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `toml:"-"`

	Host        string `toml:"host" validate:"required"`
	Port        int    `toml:"port" validate:"required,min=1,max=65535"`
	MetricsPort int    `toml:"metrics_port" validate:"omitempty,min=1,max=65535,nefield=Port"`

	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StorageBackend       string `toml:"storage_backend" validate:"oneof=disk gdrive"`
	StorageRootPath      string `toml:"storage_root_path" validate:"required_if=StorageBackend disk"`
	DriveFolderName      string `toml:"drive_folder_name" validate:"required_if=StorageBackend gdrive"`
	DriveCredentialsPath string `toml:"drive_credentials_path" validate:"required_if=StorageBackend gdrive"`

	// pipeline
	InputKey       string  `toml:"input_key" validate:"required"`
	OutputKey      string  `toml:"output_key" validate:"required,nefield=InputKey"`
	InputDelimiter string  `toml:"input_delimiter" validate:"omitempty,len=1"`
	DefaultRPE     float64 `toml:"default_rpe" validate:"gte=0,lte=10"`

	// body part classification
	BodyPartMapStore string `toml:"body_part_map_store" validate:"oneof=storage redis"`
	BodyPartMapKey   string `toml:"body_part_map_key" validate:"required"`
	ClassifierModel  string `toml:"classifier_model"`

	// llm
	LLMBaseURL        string `toml:"llm_base_url" validate:"omitempty,url"`
	LLMTimeoutSeconds int    `toml:"llm_timeout_seconds" validate:"gte=0"`

	// trends and insights
	MinExerciseEntries  int     `toml:"min_exercise_entries" validate:"gte=0"`
	InsightsModel       string  `toml:"insights_model"`
	InsightsTemperature float64 `toml:"insights_temperature" validate:"gte=0,lte=2"`
	InsightsPerMinute   int     `toml:"insights_per_minute" validate:"gte=0"`
	SummarySource       string  `toml:"summary_source" validate:"oneof=csv postgres"`

	// uploads
	UploadMaxMB    int      `toml:"upload_max_mb" validate:"gte=0"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresEnabled bool   `toml:"postgres_enabled"`
	PostgresHost    string `toml:"postgres_host" validate:"required_if=PostgresEnabled true"`
	PostgresPort    string `toml:"postgres_port" validate:"required_if=PostgresEnabled true"`
	PostgresDBName  string `toml:"postgres_db_name" validate:"required_if=PostgresEnabled true"`
	PostgresUser    string `toml:"postgres_user"`
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// Comma returns the input delimiter, ',' if not set.
func (c *Config) Comma() rune {
	if c.InputDelimiter == "" {
		return ','
	}
	return []rune(c.InputDelimiter)[0]
}

func (c *Config) applyDefaults() {
	if c.StorageBackend == "" {
		c.StorageBackend = "disk"
	}
	if c.InputKey == "" {
		c.InputKey = "uploads/strong.csv"
	}
	if c.OutputKey == "" {
		c.OutputKey = "processed/analysis_output.csv"
	}
	if c.BodyPartMapStore == "" {
		c.BodyPartMapStore = "storage"
	}
	if c.BodyPartMapKey == "" {
		c.BodyPartMapKey = "env/body_part_map.json"
	}
	if c.DefaultRPE == 0 {
		c.DefaultRPE = 7.0
	}
	if c.ClassifierModel == "" {
		c.ClassifierModel = "gpt-4"
	}
	if c.InsightsModel == "" {
		c.InsightsModel = "gpt-4"
	}
	if c.InsightsTemperature == 0 {
		c.InsightsTemperature = 0.7
	}
	if c.LLMTimeoutSeconds == 0 {
		c.LLMTimeoutSeconds = 60
	}
	if c.MinExerciseEntries == 0 {
		c.MinExerciseEntries = 25
	}
	if c.SummarySource == "" {
		c.SummarySource = "csv"
	}
	if c.UploadMaxMB == 0 {
		c.UploadMaxMB = 20
	}
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the validated config of env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for TOML content already in memory.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make([]string, 0, len(validationErrs))
			for _, fe := range validationErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid config for env %s: %s", env, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads secrets from a .env file into the process env.
// Variables already set win; a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
