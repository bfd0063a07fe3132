// Package config loads the application's configuration from defaults, an
// optional YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Neo4j  Neo4jConfig  `mapstructure:"neo4j"`
	Server ServerConfig `mapstructure:"server"`
	Graph  GraphConfig  `mapstructure:"graph"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// Neo4jConfig holds the database connection settings.
type Neo4jConfig struct {
	URI          string        `mapstructure:"uri"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	Database     string        `mapstructure:"database"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	UploadDir      string        `mapstructure:"upload_dir"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace"`
	CORSOrigin     string        `mapstructure:"cors_origin"`
}

// GraphConfig holds the snapshot limits and curvature tuning.
type GraphConfig struct {
	SnapshotLimit int     `mapstructure:"snapshot_limit"`
	FallbackLimit int     `mapstructure:"fallback_limit"`
	ListLimit     int     `mapstructure:"list_limit"`
	CurvatureBase float64 `mapstructure:"curvature_base"`
	CurvatureStep float64 `mapstructure:"curvature_step"`
	Physics       bool    `mapstructure:"physics"`
}

// SetDefaults registers every default value on v. Every Config key needs one,
// otherwise Unmarshal never consults its NEOVIZ_* variable.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "neoviz")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.compress", false)

	v.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.database", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.query_timeout", time.Duration(0))

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_bytes", 5<<20)
	v.SetDefault("server.shutdown_grace", 5*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("graph.snapshot_limit", 500)
	v.SetDefault("graph.fallback_limit", 300)
	v.SetDefault("graph.list_limit", 1000)
	v.SetDefault("graph.curvature_base", 0.15)
	v.SetDefault("graph.curvature_step", 0.15)
	v.SetDefault("graph.physics", true)
}

// BindEnv wires environment variables into v. Every key is reachable as
// NEOVIZ_<SECTION>_<KEY>; the conventional Neo4j and PORT variables are bound
// as well.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("NEOVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"neo4j.uri":      {"NEOVIZ_NEO4J_URI", "NEO4J_URI"},
		"neo4j.username": {"NEOVIZ_NEO4J_USERNAME", "NEO4J_USERNAME"},
		"neo4j.password": {"NEOVIZ_NEO4J_PASSWORD", "NEO4J_PASSWORD"},
		"neo4j.database": {"NEOVIZ_NEO4J_DATABASE", "NEO4J_DATABASE"},
		"server.port":    {"NEOVIZ_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks the values the application cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Neo4j.URI == "" {
		errs = append(errs, errors.New("neo4j.uri is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Graph.SnapshotLimit <= 0 || c.Graph.FallbackLimit <= 0 {
		errs = append(errs, errors.New("graph limits must be positive"))
	}
	if c.Graph.CurvatureBase <= 0 || c.Graph.CurvatureStep <= 0 {
		errs = append(errs, errors.New("graph curvature must be positive"))
	}
	return errors.Join(errs...)
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	once.Do(func() {
		cfg, err := Unmarshal(v)
		if err != nil {
			loadErr = err
			return
		}
		instance = cfg
	})
	return loadErr
}

// Unmarshal decodes v into a fresh Config without touching the singleton.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
