package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".bookshelf"
	configFileName = "config.yaml"
)

// Environment overrides, applied after the config file.
const (
	EnvDataDir       = "BOOKSHELF_DATA_DIR"
	EnvDatabase      = "BOOKSHELF_DATABASE"
	EnvCatalogue     = "BOOKSHELF_CATALOGUE"
	EnvLogLevel      = "BOOKSHELF_LOG_LEVEL"
	EnvLogFile       = "BOOKSHELF_LOG_FILE"
	EnvSnapThreshold = "BOOKSHELF_SNAP_THRESHOLD"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIModel   = "BOOKSHELF_OPENAI_MODEL"
	EnvOpenAIBaseURL = "BOOKSHELF_OPENAI_BASE_URL"
	EnvAskTimeout    = "BOOKSHELF_ASK_TIMEOUT"
	EnvRPCURL        = "BOOKSHELF_WALLET_RPC"
	EnvContract      = "BOOKSHELF_WALLET_CONTRACT"
	EnvOwner         = "BOOKSHELF_WALLET_OWNER"
	EnvIPFSGateway   = "BOOKSHELF_IPFS_GATEWAY"
)

type DataConfig struct {
	Dir       string `yaml:"dir"`
	Database  string `yaml:"database"`
	Catalogue string `yaml:"catalogue,omitempty"` // optional YAML catalogue replacing the built-in one
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AssistantConfig struct {
	SnapThreshold int    `yaml:"snap_threshold"` // cells
	Margin        int    `yaml:"margin"`         // cells kept between the docked widget and the screen edge
	OpenAIKey     string `yaml:"openai_key,omitempty"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`
	// AskTimeout bounds a question call. Zero means no timeout: a stalled
	// backend keeps the send in flight.
	AskTimeout time.Duration `yaml:"ask_timeout"`
}

type WalletConfig struct {
	RPCURL      string `yaml:"rpc_url,omitempty"`
	Contract    string `yaml:"contract,omitempty"`
	Owner       string `yaml:"owner,omitempty"`
	IPFSGateway string `yaml:"ipfs_gateway"`
}

type Config struct {
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
	Assistant AssistantConfig `yaml:"assistant"`
	Wallet    WalletConfig    `yaml:"wallet"`

	path string `yaml:"-"`
}

func Defaults() *Config {
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, configDirName)
	return &Config{
		Data: DataConfig{
			Dir:      dir,
			Database: filepath.Join(dir, "bookshelf.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "logs", "bookshelf.log"),
		},
		Assistant: AssistantConfig{
			SnapThreshold: 3,
			Margin:        1,
			OpenAIModel:   "gpt-4o-mini",
		},
		Wallet: WalletConfig{
			IPFSGateway: "https://ipfs.io/ipfs/",
		},
		path: filepath.Join(dir, configFileName),
	}
}

// Load reads the config file at path (the default location when empty),
// then .env, then environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		cfg.path = path
	}

	raw, err := os.ReadFile(cfg.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", cfg.path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", cfg.path, err)
	}

	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Path() string { return c.path }

func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0600)
}

func (c *Config) Validate() error {
	if c.Assistant.SnapThreshold < 0 {
		return fmt.Errorf("assistant.snap_threshold must not be negative")
	}
	if c.Assistant.Margin < 0 {
		return fmt.Errorf("assistant.margin must not be negative")
	}
	if c.Assistant.AskTimeout < 0 {
		return fmt.Errorf("assistant.ask_timeout must not be negative")
	}
	if c.Data.Database == "" {
		return fmt.Errorf("data.database is required")
	}
	return nil
}

// WalletConfigured reports whether enough is known to reach a wallet.
func (c *Config) WalletConfigured() bool {
	return c.Wallet.RPCURL != "" && c.Wallet.Contract != "" && c.Wallet.Owner != ""
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
		c.Data.Database = filepath.Join(v, "bookshelf.db")
	}
	c.Data.Database = getEnv(EnvDatabase, c.Data.Database)
	c.Data.Catalogue = getEnv(EnvCatalogue, c.Data.Catalogue)
	c.Logging.Level = getEnv(EnvLogLevel, c.Logging.Level)
	c.Logging.File = getEnv(EnvLogFile, c.Logging.File)
	c.Assistant.SnapThreshold = getEnvInt(EnvSnapThreshold, c.Assistant.SnapThreshold)
	c.Assistant.OpenAIKey = getEnv(EnvOpenAIKey, c.Assistant.OpenAIKey)
	c.Assistant.OpenAIModel = getEnv(EnvOpenAIModel, c.Assistant.OpenAIModel)
	c.Assistant.OpenAIBaseURL = getEnv(EnvOpenAIBaseURL, c.Assistant.OpenAIBaseURL)
	if v := os.Getenv(EnvAskTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Assistant.AskTimeout = d
		}
	}
	c.Wallet.RPCURL = getEnv(EnvRPCURL, c.Wallet.RPCURL)
	c.Wallet.Contract = getEnv(EnvContract, c.Wallet.Contract)
	c.Wallet.Owner = getEnv(EnvOwner, c.Wallet.Owner)
	c.Wallet.IPFSGateway = getEnv(EnvIPFSGateway, c.Wallet.IPFSGateway)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
