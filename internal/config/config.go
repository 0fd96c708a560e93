package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Text-generation collaborator.
	LLMAPIKey    string        `env:"LLM_API_KEY,required"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	RateLimitRPS float64       `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Worker loop.
	WorkerBatchSize    int           `env:"WORKER_BATCH_SIZE" envDefault:"5"`
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"10s"`

	// Classification / analytics knobs. Threshold values mirror the
	// documented reel heuristics; change with care, downstream bucketing
	// depends on classification staying reproducible.
	ReelMaxDuration     float64       `env:"REEL_MAX_DURATION" envDefault:"90"`
	TagSummaryMaxLabels int           `env:"TAG_SUMMARY_MAX_LABELS" envDefault:"8"`
	ContentFetchLimit   int           `env:"CONTENT_FETCH_LIMIT" envDefault:"50"`
	JobRetentionDays    int           `env:"JOB_RETENTION_DAYS" envDefault:"30"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
