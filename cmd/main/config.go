package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP server and its handlers.
type ServerConfig struct {
	Addr               string   `json:"addr"`
	LogLevel           string   `json:"log_level"`
	DataDir            string   `json:"data_dir"`
	StatsDatabasePath  string   `json:"stats_database_path"`
	FrontendPath       string   `json:"frontend_path"`
	SamplesPath        string   `json:"samples_path"`
	AllowedOrigins     []string `json:"allowed_origins"`
	TokenizerEncoding  string   `json:"tokenizer_encoding"`
	AdminToken         string   `json:"admin_token"`
	MaxCompletionWords int      `json:"max_completion_words"`
}

// Config is the top-level configuration struct.
type Config struct {
	Server *ServerConfig `json:"server_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:              ":8000",
		LogLevel:          "info",
		DataDir:           "./data",
		StatsDatabasePath: "./data/nextword_stats.db",
		FrontendPath:      "./data/frontend",
		SamplesPath:       "./data/samples.yaml",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"https://*.vercel.app",
		},
		TokenizerEncoding:  "cl100k_base",
		AdminToken:         "",
		MaxCompletionWords: 10,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server: DefaultServerConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The server can still run with defaults, so only warn.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ConfigManager handles thread-safe access to configuration and the derived
// allowed-origin matchers.
type ConfigManager struct {
	config       *Config
	mu           sync.RWMutex
	exactOrigins map[string]struct{}
	globOrigins  []string // "prefix*suffix" patterns, split around the single '*'
	configPath   string
	logger       *slog.Logger
}

// NewConfigManager loads the config and initializes the manager.
func NewConfigManager(path string) (*ConfigManager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	cm := &ConfigManager{
		config:     cfg,
		configPath: path,
		// Log to stdout before the application-specific logger is set.
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})),
	}
	cm.refreshCache()

	return cm, nil
}

// SetLogger sets the logger. That's about it.
func (cm *ConfigManager) SetLogger(logger *slog.Logger) {
	cm.logger = logger
}

// Get returns a thread-safe copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	// Return a dereferenced copy to prevent external modification of the internal state
	return *cm.config
}

// Update replaces the configuration, saves it to disk, and refreshes the
// derived origin matchers.
func (cm *ConfigManager) Update(newConfig Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if newConfig.Server == nil {
		return fmt.Errorf("server_config section is required")
	}

	*cm.config = newConfig
	cm.refreshCache()

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(cm.configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// OriginAllowed checks an Origin header value against the configured list.
// Entries may contain a single '*' wildcard ("https://*.example.app").
func (cm *ConfigManager) OriginAllowed(origin string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if _, ok := cm.exactOrigins[origin]; ok {
		return true
	}
	for _, pattern := range cm.globOrigins {
		star := strings.IndexByte(pattern, '*')
		prefix, suffix := pattern[:star], pattern[star+1:]
		if len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// refreshCache rebuilds the origin matchers from the config strings.
// Callers must hold cm.mu.
func (cm *ConfigManager) refreshCache() {
	exact := make(map[string]struct{})
	var globs []string

	for _, origin := range cm.config.Server.AllowedOrigins {
		if strings.Count(origin, "*") > 1 {
			cm.logger.Warn("Ignoring allowed origin with multiple wildcards", "origin", origin)
			continue
		}
		if strings.Contains(origin, "*") {
			globs = append(globs, origin)
		} else {
			exact[origin] = struct{}{}
		}
	}
	cm.exactOrigins = exact
	cm.globOrigins = globs
}
