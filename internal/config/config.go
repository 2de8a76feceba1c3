package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	APIAddr string `env:"API_ADDR" envDefault:":8080"`

	// exactly one of the two job backends: a local Postgres store, or a
	// remote sulber job API consumed over REST
	PostgresDSN   string `env:"POSTGRES_DSN"`
	JobAPIBaseURL string `env:"JOB_API_BASE_URL"`
	JobAPIToken   string `env:"JOB_API_TOKEN"`

	// optional: shared cache; in-process memory cache when unset
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSigningKey string        `env:"JWT_SIGNING_KEY,notEmpty"`
	JobsStaleTTL  time.Duration `env:"JOBS_STALE_TTL" envDefault:"30s"`
}

func Load() Config {
	var c Config
	if err := env.Parse(&c); err != nil {
		log.Fatal(err)
	}
	if c.PostgresDSN == "" && c.JobAPIBaseURL == "" {
		log.Fatal("either POSTGRES_DSN or JOB_API_BASE_URL must be set")
	}
	return c
}
