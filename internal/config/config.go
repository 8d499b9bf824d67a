package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Inputs   InputConfig
	Viewer   ViewerConfig
	Chart    ChartConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Log      LogConfig
	Env      string
}

// InputConfig holds the resolved sample sources. Local paths are absolute.
type InputConfig struct {
	BaseDir       string
	TraceFile     string
	AmplitudeFile string
	FrequencyFile string
}

// ViewerConfig holds the interactive viewer configuration
type ViewerConfig struct {
	Addr            string
	OpenBrowser     bool
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// ChartConfig holds the rendered canvas size
type ChartConfig struct {
	Width  int
	Height int
}

// DatabaseConfig holds measurement history configuration.
// An empty URL disables history.
type DatabaseConfig struct {
	URL string
}

// AWSConfig holds AWS/S3 configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
	ArchiveCharts   bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level zerolog.Level
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BASE_DIR", "")
	v.SetDefault("TRACE_FILE", "output/capturedOutput.csv")
	v.SetDefault("AMPLITUDE_FILE", "output/iir_amplitude.csv")
	v.SetDefault("FREQUENCY_FILE", "output/iir_frequency.csv")
	v.SetDefault("VIEWER_ADDR", "127.0.0.1:0")
	v.SetDefault("VIEWER_OPEN_BROWSER", true)
	v.SetDefault("VIEWER_SHUTDOWN_TIMEOUT", "5s")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("CHART_WIDTH", 1200)
	v.SetDefault("CHART_HEIGHT", 600)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("ARCHIVE_CHARTS", false)

	// Environment variables override .env file values
	v.AutomaticEnv()

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	// Try to read .env file for the current environment
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if dir, err := executableDir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .env.%s: %w", env, err)
		}
	}

	return fromViper(v, env)
}

func fromViper(v *viper.Viper, env string) (*Config, error) {
	var config Config
	config.Env = env

	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	config.Log.Level = level

	// Inputs sit next to the binary unless BASE_DIR says otherwise
	baseDir := v.GetString("BASE_DIR")
	if baseDir == "" {
		if baseDir, err = executableDir(); err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
	}
	baseDir, err = filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve BASE_DIR: %w", err)
	}
	config.Inputs.BaseDir = baseDir
	config.Inputs.TraceFile = resolveSource(baseDir, v.GetString("TRACE_FILE"))
	config.Inputs.AmplitudeFile = resolveSource(baseDir, v.GetString("AMPLITUDE_FILE"))
	config.Inputs.FrequencyFile = resolveSource(baseDir, v.GetString("FREQUENCY_FILE"))

	config.Viewer.Addr = v.GetString("VIEWER_ADDR")
	config.Viewer.OpenBrowser = v.GetBool("VIEWER_OPEN_BROWSER")
	config.Viewer.ShutdownTimeout = v.GetDuration("VIEWER_SHUTDOWN_TIMEOUT")
	config.Viewer.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	config.Chart.Width = v.GetInt("CHART_WIDTH")
	config.Chart.Height = v.GetInt("CHART_HEIGHT")
	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %dx%d", config.Chart.Width, config.Chart.Height)
	}

	config.Database.URL = v.GetString("DATABASE_URL")

	config.AWS.Region = v.GetString("AWS_REGION")
	config.AWS.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	config.AWS.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	config.AWS.S3Bucket = v.GetString("S3_BUCKET")
	config.AWS.S3Endpoint = v.GetString("S3_ENDPOINT")
	config.AWS.ArchiveCharts = v.GetBool("ARCHIVE_CHARTS")
	if config.AWS.ArchiveCharts && config.AWS.S3Bucket == "" {
		return nil, fmt.Errorf("ARCHIVE_CHARTS requires S3_BUCKET")
	}

	return &config, nil
}

// StorageEnabled reports whether an object store is configured
func (c *Config) StorageEnabled() bool {
	return c.AWS.S3Bucket != ""
}

// HistoryEnabled reports whether measurement history is configured
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// executableDir returns the directory holding the running binary, with
// symlinks resolved
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// resolveSource makes local paths absolute against baseDir.
// Object URIs are returned unchanged.
func resolveSource(baseDir, source string) string {
	if strings.HasPrefix(source, "s3://") || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(baseDir, source)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
