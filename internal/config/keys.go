package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "PROSPEKT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "auth.api_token", typ: kString, env: "PROSPEKT_AUTH_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Auth.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Auth.APIToken },
	},
	{
		key: "storage.data_dir", typ: kString, env: "PROSPEKT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "blob.output_dir", typ: kString, env: "PROSPEKT_BLOB_OUTPUT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Blob.OutputDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Blob.OutputDir },
	},
	{
		key: "graph.client_id", typ: kString, env: "PROSPEKT_GRAPH_CLIENT_ID",
		apply:   func(cfg *Config, v any) { cfg.Graph.ClientID = v.(string) },
		extract: func(cfg Config) any { return cfg.Graph.ClientID },
	},
	{
		key: "graph.client_secret", typ: kString, env: "PROSPEKT_GRAPH_CLIENT_SECRET",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Graph.ClientSecret = v.(string) },
		extract: func(cfg Config) any { return cfg.Graph.ClientSecret },
	},
	{
		key: "graph.authority_url", typ: kString, env: "PROSPEKT_GRAPH_AUTHORITY_URL",
		apply:   func(cfg *Config, v any) { cfg.Graph.AuthorityURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Graph.AuthorityURL },
	},
	{
		key: "graph.scope", typ: kString, env: "PROSPEKT_GRAPH_SCOPE",
		apply:   func(cfg *Config, v any) { cfg.Graph.Scope = v.(string) },
		extract: func(cfg Config) any { return cfg.Graph.Scope },
	},
	{
		key: "worker.poll_interval", typ: kString, env: "PROSPEKT_WORKER_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Worker.PollInterval = v.(string) },
		extract: func(cfg Config) any { return cfg.Worker.PollInterval },
	},
	{
		key: "worker.concurrency", typ: kInt, env: "PROSPEKT_WORKER_CONCURRENCY",
		apply:   func(cfg *Config, v any) { cfg.Worker.Concurrency = v.(int) },
		extract: func(cfg Config) any { return cfg.Worker.Concurrency },
	},
	{
		key: "worker.max_attempts", typ: kInt, env: "PROSPEKT_WORKER_MAX_ATTEMPTS",
		apply:   func(cfg *Config, v any) { cfg.Worker.MaxAttempts = v.(int) },
		extract: func(cfg Config) any { return cfg.Worker.MaxAttempts },
	},
	{
		key: "parse.bullet_normalization", typ: kBool, env: "PROSPEKT_PARSE_BULLET_NORMALIZATION",
		apply:   func(cfg *Config, v any) { cfg.Parse.BulletNormalization = v.(bool) },
		extract: func(cfg Config) any { return cfg.Parse.BulletNormalization },
	},
	{
		key: "log.level", typ: kString, env: "PROSPEKT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if bv, err := strconv.ParseBool(v); err == nil {
					s.apply(cfg, bv)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
