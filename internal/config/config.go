package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"sqlite://trendscope.db"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	AnalysisRowLimit           int           `envconfig:"ANALYSIS_ROW_LIMIT" default:"800"`
	ClusterSimilarityThreshold float64       `envconfig:"CLUSTER_SIMILARITY_THRESHOLD" default:"0.82"`
	ClusterMaxGroups           int           `envconfig:"CLUSTER_MAX_GROUPS" default:"10"`
	TermsTopN                  int           `envconfig:"TERMS_TOP_N" default:"10"`
	VelocityWindow             time.Duration `envconfig:"VELOCITY_WINDOW" default:"168h"`
	VelocityNoiseFloor         int           `envconfig:"VELOCITY_NOISE_FLOOR" default:"3"`
	EntityVelocityLimit        int           `envconfig:"ENTITY_VELOCITY_LIMIT" default:"20"`

	FeedsFile      string `envconfig:"FEEDS_FILE" default:"feeds.yaml"`
	FeedItemLimit  int    `envconfig:"FEED_ITEM_LIMIT" default:"10"`
	FetchBodies    bool   `envconfig:"FETCH_BODIES" default:"true"`
	LanguageFilter string `envconfig:"LANGUAGE_FILTER" default:"en"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4.1-mini"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"articles"`
	KafkaGroupID string `envconfig:"KAFKA_GROUP_ID" default:"trendscope"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.AnalysisRowLimit < 1 {
		return fmt.Errorf("ANALYSIS_ROW_LIMIT must be >= 1")
	}
	if c.ClusterSimilarityThreshold <= 0 || c.ClusterSimilarityThreshold > 1 {
		return fmt.Errorf("CLUSTER_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.ClusterMaxGroups < 1 {
		return fmt.Errorf("CLUSTER_MAX_GROUPS must be >= 1")
	}
	if c.TermsTopN < 1 {
		return fmt.Errorf("TERMS_TOP_N must be >= 1")
	}
	if c.VelocityWindow < time.Hour {
		return fmt.Errorf("VELOCITY_WINDOW must be at least 1h")
	}
	if c.VelocityNoiseFloor < 1 {
		return fmt.Errorf("VELOCITY_NOISE_FLOOR must be >= 1")
	}
	if c.EntityVelocityLimit < 1 {
		return fmt.Errorf("ENTITY_VELOCITY_LIMIT must be >= 1")
	}
	if c.FeedItemLimit < 1 {
		return fmt.Errorf("FEED_ITEM_LIMIT must be >= 1")
	}
	return nil
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.CORSAllowedOrigins)
}

func (c *Config) KafkaBrokerList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.KafkaBrokers)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
