package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Storage StorageConfig
	Blob    BlobConfig
	Graph   GraphConfig
	Worker  WorkerConfig
	Parse   ParseConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type AuthConfig struct {
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type BlobConfig struct {
	OutputDir string
}

type GraphConfig struct {
	ClientID     string
	ClientSecret string
	AuthorityURL string
	Scope        string
}

type WorkerConfig struct {
	PollInterval string
	Concurrency  int
	MaxAttempts  int
}

type ParseConfig struct {
	BulletNormalization bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 8600,
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Blob: BlobConfig{
			OutputDir: defaultOutputDir(dataDir),
		},
		Graph: GraphConfig{
			Scope: "https://graph.microsoft.com/.default",
		},
		Worker: WorkerConfig{
			PollInterval: "500ms",
			Concurrency:  1,
			MaxAttempts:  3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.prospekt.app) and secrets
// fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/prospekt/config.json
// and secrets must be provided via environment variables.
//
// Environment variables (PROSPEKT_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for secrets still empty after env.
	if cfg.Auth.APIToken == "" {
		if v, err := kc.Get("prospekt", "api_token"); err == nil && v != "" {
			cfg.Auth.APIToken = v
		}
	}
	if cfg.Graph.ClientSecret == "" {
		if v, err := kc.Get("prospekt", "graph_client_secret"); err == nil && v != "" {
			cfg.Graph.ClientSecret = v
		}
	}

	return cfg, nil
}

// ValidateServer checks the fields the server and its conversion worker
// cannot run without. CLI commands that only parse local files do not
// need these, so Load does not enforce them.
func (c Config) ValidateServer() error {
	if c.Auth.APIToken == "" {
		return fmt.Errorf("missing required config: API token. "+
			"Set it via environment variable PROSPEKT_AUTH_API_TOKEN%s", secretHint("api_token"))
	}
	if c.Graph.ClientID == "" {
		return fmt.Errorf("missing required config: Graph client ID. " +
			"Set it with `prospekt config set graph.client_id` or environment variable PROSPEKT_GRAPH_CLIENT_ID")
	}
	if c.Graph.ClientSecret == "" {
		return fmt.Errorf("missing required config: Graph client secret. "+
			"Set it via environment variable PROSPEKT_GRAPH_CLIENT_SECRET%s", secretHint("graph_client_secret"))
	}
	if c.Graph.AuthorityURL == "" {
		return fmt.Errorf("missing required config: Graph authority URL. " +
			"Set it with `prospekt config set graph.authority_url` or environment variable PROSPEKT_GRAPH_AUTHORITY_URL")
	}
	return nil
}

// keychainReader reads from macOS Keychain via the security CLI.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
