package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig `yaml:"server"`
	Store        StoreConfig  `yaml:"store"`
	EmbedLLM     LLMConfig    `yaml:"embed_llm"`
	InferenceLLM LLMConfig    `yaml:"inference_llm"`
	RAG          RAGConfig    `yaml:"rag"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and configures the vector-store backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // chromem | postgres
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	InMemory      bool   `yaml:"in_memory"`
	EncryptionKey string `yaml:"encryption_key"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresKey   string `yaml:"postgres_key"`
	Debug         bool   `yaml:"debug"`
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Key     string `yaml:"key"`
	KeyEnv  string `yaml:"key_env"`
}

// RAGConfig carries the retrieval tuning knobs. The defaults mirror
// the values the pipeline was tuned with; they are configurable since
// sensible values depend on index size and chunk density.
type RAGConfig struct {
	RetrieveResults int `yaml:"retrieve_results"`
	OverfetchFactor int `yaml:"overfetch_factor"`
	OverfetchMin    int `yaml:"overfetch_min"`
	PromptContexts  int `yaml:"prompt_contexts"`
	MaxMessages     int `yaml:"max_messages"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	resolveKeys(&cfg)
	return &cfg, nil
}

// LoadEnv loads a .env file if one is present. Missing files are fine;
// keys may come from the real environment instead.
func LoadEnv() {
	_ = godotenv.Load()
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "chromem"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./chromemdb"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "course_chunks"
	}
	if cfg.RAG.RetrieveResults == 0 {
		cfg.RAG.RetrieveResults = 15
	}
	if cfg.RAG.OverfetchFactor == 0 {
		cfg.RAG.OverfetchFactor = 2
	}
	if cfg.RAG.OverfetchMin == 0 {
		cfg.RAG.OverfetchMin = 20
	}
	if cfg.RAG.PromptContexts == 0 {
		cfg.RAG.PromptContexts = 5
	}
	if cfg.RAG.MaxMessages == 0 {
		cfg.RAG.MaxMessages = 20
	}
}

// resolveKeys fills LLM keys from the environment when the config
// names an env variable instead of embedding the secret.
func resolveKeys(cfg *Config) {
	for _, llm := range []*LLMConfig{&cfg.EmbedLLM, &cfg.InferenceLLM} {
		if llm.Key == "" && llm.KeyEnv != "" {
			llm.Key = os.Getenv(llm.KeyEnv)
		}
	}
}
