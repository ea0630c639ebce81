package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Store  StoreConfig
	AI     AIConfig
	Admin  AdminConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Auth:   loadAuthConfig(),
		Store:  loadStoreConfig(),
		AI:     ai,
		Admin:  loadAdminConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AuthConfig holds the cookie-signing secret.
type AuthConfig struct {
	SecretKey string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		SecretKey: getEnvOrDefault("SECRET_KEY", "a-seed-secret-key-dev"),
	}
}

// StoreConfig locates the on-disk data directory.
type StoreConfig struct {
	DataDir string
}

// SessionsDir is where per-user transcript directories live.
func (c StoreConfig) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// UsersFile holds every registered account.
func (c StoreConfig) UsersFile() string {
	return filepath.Join(c.DataDir, "users.json")
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{DataDir: getEnvOrDefault("DATA_DIR", "data")}
}

// AIConfig describes the model backend and generation parameters.
type AIConfig struct {
	Host             string
	Model            string
	NumCtx           int
	Temperature      float64
	TopP             float64
	SystemPromptFile string
}

func loadAIConfig() (AIConfig, error) {
	numCtx, err := parseIntEnv("NUM_CTX", 4096)
	if err != nil {
		return AIConfig{}, err
	}

	temperature, err := parseFloatEnv("GEN_TEMP", 0.7)
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseFloatEnv("TOP_P", 0.9)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Host:             getEnvOrDefault("OLLAMA_HOST", "http://127.0.0.1:11434"),
		Model:            getEnvOrDefault("MODEL_NAME", "gpt-oss:120b-cloud"),
		NumCtx:           numCtx,
		Temperature:      temperature,
		TopP:             topP,
		SystemPromptFile: getEnvOrDefault("SYSTEM_PROMPT_FILE", filepath.Join("training", "a_seed_prompt.txt")),
	}, nil
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string
	Password string
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username: getEnvOrDefault("ADMIN_USER", "admin"),
		Password: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
