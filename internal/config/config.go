package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	// Document chunking
	ChunkSize     int    `envconfig:"CHUNK_SIZE" default:"512"`
	ChunkOverlap  int    `envconfig:"CHUNK_OVERLAP" default:"128"`
	ChunkStrategy string `envconfig:"CHUNK_STRATEGY" default:"semantic"`

	// Search
	SearchTopK           int     `envconfig:"SEARCH_TOP_K" default:"5"`
	SearchScoreThreshold float32 `envconfig:"SEARCH_SCORE_THRESHOLD" default:"0.3"`

	// Summarization
	SummaryMaxSentences       int     `envconfig:"SUMMARY_MAX_SENTENCES" default:"3"`
	SummaryDiversityThreshold float32 `envconfig:"SUMMARY_DIVERSITY_THRESHOLD" default:"0.8"`
	SummaryMinSentenceLen     int     `envconfig:"SUMMARY_MIN_SENTENCE_LEN" default:"20"`

	// Background indexing
	WorkerPollSeconds int   `envconfig:"WORKER_POLL_SECONDS" default:"10"`
	WorkerMaxRetries  int32 `envconfig:"WORKER_MAX_RETRIES" default:"3"`

	MaxBodyMB int64 `envconfig:"MAX_BODY_MB" default:"5"`

	// Optional raw-source offload to S3-compatible storage
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"clearnote-sources"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CLEARNOTE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
