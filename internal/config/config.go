// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Scraping ScrapingConfig `yaml:"scraping"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Debug    bool   `yaml:"debug"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type ScrapingConfig struct {
	Caixa CaixaConfig `yaml:"caixa"`
}

type CaixaConfig struct {
	BaseURL     string                `yaml:"base_url"`
	Endpoints   map[string]string     `yaml:"endpoints"`
	UserAgent   string                `yaml:"user_agent"`
	Timeout     Duration              `yaml:"timeout"`
	RateLimit   RateLimitConfig       `yaml:"rate_limit"`
	RetryPolicy RetryPolicyConfig     `yaml:"retry_policy"`
	Workers     int                   `yaml:"workers"`
	Targets     []domain.SearchFilter `yaml:"targets"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type RetryPolicyConfig struct {
	MaxRetries int      `yaml:"max_retries"`
	MinWait    Duration `yaml:"min_wait"`
	MaxWait    Duration `yaml:"max_wait"`
}

// Duration lets YAML carry values like "30s"; yaml.v2 only understands
// time.Duration as raw nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type OutputConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Load reads configs/app.yaml and configs/scraping.yaml from dir, applies
// environment overrides for database credentials and fills defaults.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	appPath := filepath.Join(dir, "app.yaml")
	appFile, err := os.ReadFile(appPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", appPath, err)
	}
	if err := yaml.Unmarshal(appFile, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", appPath, err)
	}

	// Configurações de scraping ficam em arquivo separado
	scrapingPath := filepath.Join(dir, "scraping.yaml")
	scrapingFile, err := os.ReadFile(scrapingPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", scrapingPath, err)
	}
	if err := yaml.Unmarshal(scrapingFile, &cfg.Scraping); err != nil {
		return nil, fmt.Errorf("parse %s: %w", scrapingPath, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables. Only secrets
// and connection data are overridable; scraping behavior stays in YAML.
func (c *Config) applyEnv() {
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
}

func (c *Config) applyDefaults() {
	caixa := &c.Scraping.Caixa
	if caixa.BaseURL == "" {
		caixa.BaseURL = "https://venda-imoveis.caixa.gov.br"
	}
	if caixa.Endpoints == nil {
		caixa.Endpoints = map[string]string{}
	}
	if caixa.Endpoints["search"] == "" {
		caixa.Endpoints["search"] = "/sistema/carregaPesquisaImoveis.asp"
	}
	if caixa.Endpoints["list"] == "" {
		caixa.Endpoints["list"] = "/sistema/carregaListaImoveis.asp"
	}
	if caixa.Endpoints["detail"] == "" {
		caixa.Endpoints["detail"] = "/sistema/detalhe-imovel.asp"
	}
	if caixa.UserAgent == "" {
		caixa.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if caixa.Timeout <= 0 {
		caixa.Timeout = Duration(30 * time.Second)
	}
	if caixa.RateLimit.RequestsPerSecond <= 0 {
		caixa.RateLimit.RequestsPerSecond = 1
	}
	if caixa.RateLimit.Burst <= 0 {
		caixa.RateLimit.Burst = 1
	}
	if caixa.RetryPolicy.MaxRetries <= 0 {
		caixa.RetryPolicy.MaxRetries = 3
	}
	if caixa.RetryPolicy.MinWait <= 0 {
		caixa.RetryPolicy.MinWait = Duration(1 * time.Second)
	}
	if caixa.RetryPolicy.MaxWait <= 0 {
		caixa.RetryPolicy.MaxWait = Duration(30 * time.Second)
	}
	if caixa.Workers <= 0 {
		caixa.Workers = 4
	}
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = "data/imoveis.csv"
	}
	if c.App.Port <= 0 {
		c.App.Port = 8081
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

func (c *Config) validate() error {
	if len(c.Scraping.Caixa.Targets) == 0 {
		return fmt.Errorf("config: no scraping targets configured")
	}
	for i, t := range c.Scraping.Caixa.Targets {
		if t.State == "" {
			return fmt.Errorf("config: target %d has no uf", i)
		}
	}
	return nil
}

// DSN builds a postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
