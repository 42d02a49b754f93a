package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Dev struct {
		Mode bool `yaml:"mode"`
	} `yaml:"dev"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	OpenSearch struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"opensearch"`
	Embedding struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Dim      int    `yaml:"dim"`
	} `yaml:"embedding"`
	LLM struct {
		Provider  string `yaml:"provider"`
		Model     string `yaml:"model"`
		OpenAIKey string `yaml:"openai_key"`
		OllamaURL string `yaml:"ollama_url"`
	} `yaml:"llm"`
	Retrieval struct {
		KFactor  int     `yaml:"k_factor"`
		MinScore float64 `yaml:"min_score"`
	} `yaml:"retrieval"`
	Security struct {
		TokenSigningKey string        `yaml:"token_signing_key"`
		TokenTTL        time.Duration `yaml:"token_ttl"`
		Issuer          string        `yaml:"issuer"`
	} `yaml:"security"`
	Upload struct {
		Dir      string `yaml:"dir"`
		MaxBytes int64  `yaml:"max_bytes"`
	} `yaml:"upload"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8090"
	cfg.Dev.Mode = true
	cfg.Embedding.Provider = "noop"
	cfg.Embedding.Dim = 384
	cfg.LLM.Provider = "noop"
	cfg.Retrieval.KFactor = 10
	cfg.Retrieval.MinScore = 1
	cfg.Security.TokenTTL = 24 * time.Hour
	cfg.Security.Issuer = "fitai"
	cfg.Upload.Dir = "uploads"
	cfg.Upload.MaxBytes = 32 << 20
	cfg.Log.Level = "info"
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	applyEnv(&cfg)

	if cfg.OpenSearch.URL == "" {
		return cfg, errors.New("missing opensearch.url (or FITAI_OPENSEARCH_URL)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FITAI_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("FITAI_DEV_MODE"); v != "" {
		cfg.Dev.Mode = parseBool(v, cfg.Dev.Mode)
	}
	if v := os.Getenv("FITAI_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("FITAI_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("FITAI_OPENSEARCH_URL"); v != "" {
		cfg.OpenSearch.URL = v
	}
	if v := os.Getenv("FITAI_OPENSEARCH_USERNAME"); v != "" {
		cfg.OpenSearch.Username = v
	}
	if v := os.Getenv("FITAI_OPENSEARCH_PASSWORD"); v != "" {
		cfg.OpenSearch.Password = v
	}
	if v := os.Getenv("FITAI_EMBED_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("FITAI_EMBED_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("FITAI_EMBED_DIM"); v != "" {
		if dim, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dim = dim
		}
	}
	if v := os.Getenv("FITAI_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("FITAI_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("FITAI_OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIKey = v
	}
	if v := os.Getenv("FITAI_OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("FITAI_RETRIEVAL_K_FACTOR"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.KFactor = k
		}
	}
	if v := os.Getenv("FITAI_RETRIEVAL_MIN_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Retrieval.MinScore = score
		}
	}
	if v := os.Getenv("FITAI_TOKEN_SIGNING_KEY"); v != "" {
		cfg.Security.TokenSigningKey = v
	}
	if v := os.Getenv("FITAI_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Security.TokenTTL = d
		}
	}
	if v := os.Getenv("FITAI_TOKEN_ISSUER"); v != "" {
		cfg.Security.Issuer = v
	}
	if v := os.Getenv("FITAI_UPLOAD_DIR"); v != "" {
		cfg.Upload.Dir = v
	}
	if v := os.Getenv("FITAI_UPLOAD_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxBytes = n
		}
	}
	if v := os.Getenv("FITAI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func parseBool(input string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
