package config

import (
	"flag"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel   string
	ListenAddr string
	BaseURL    string // public base URL used when building shared list links

	PostgresAddr     string // Postgres address in host[:port] format
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	MigrationsPath   string

	RedisAddr     string // Redis address in host[:port] format
	RedisUser     string // Redis user
	RedisPassword string // Redis password

	LimiterFailOpen   bool
	CacheReservations bool // whether to keep reserved gift ids in redis
	ReservesLimit     int
	CacheTTL          time.Duration

	// Seed params (only for cmd/seed)
	SeedOwnerID    string
	SeedOwnerEmail string
}

func New() *Config {
	// Missing .env is fine; env vars and flags still apply.
	_ = godotenv.Load()

	c := &Config{}

	flag.StringVar(&c.LogLevel, "logLevel", LookupEnvString("LOG_LEVEL", "DEBUG"), "Set log level: DEBUG, INFO, WARNING, ERROR.")
	flag.StringVar(&c.ListenAddr, "listenAddr", LookupEnvString("LISTEN_ADDR", ":8000"), `Address in form of "[host]:port" that HTTP server should be listening on.`)
	flag.StringVar(&c.BaseURL, "baseURL", LookupEnvString("BASE_URL", "http://localhost:8000"), "Public base URL used in shared list links.")

	flag.StringVar(&c.PostgresAddr, "postgresAddr", LookupEnvString("POSTGRES_ADDR", "127.0.0.1:5432"), "Set PostgreSQL address as host:port, where port is optional (without TLS).")
	flag.StringVar(&c.PostgresDB, "postgresDB", LookupEnvString("POSTGRES_DB", "presenteio"), "Set PostgreSQL DB.")
	flag.StringVar(&c.PostgresUser, "postgresUser", LookupEnvString("POSTGRES_USER", "develop"), "Set PostgreSQL user.")
	flag.StringVar(&c.PostgresPassword, "postgresPassword", LookupEnvString("POSTGRES_PASSWORD", "develop"), "Set PostgreSQL password.")
	flag.StringVar(&c.MigrationsPath, "migrationsPath", LookupEnvString("MIGRATIONS_PATH", "migrations"), "Directory with SQL migrations applied at startup.")

	flag.StringVar(&c.RedisAddr, "redisAddr", LookupEnvString("REDIS_ADDR", "127.0.0.1:6379"), "Redis address in host[:port] format.")
	flag.StringVar(&c.RedisUser, "redisUser", LookupEnvString("REDIS_USER", ""), "Redis user.")
	flag.StringVar(&c.RedisPassword, "redisPassword", LookupEnvString("REDIS_PASSWORD", ""), "Redis password.")

	flag.BoolVar(&c.LimiterFailOpen, "limiterFailOpen", LookupEnvBool("LIMITER_FAIL_OPEN", false), "Set to make limiter allow request if failed to check limits.")
	flag.BoolVar(&c.CacheReservations, "cacheReservations", LookupEnvBool("CACHE_RESERVATIONS", false), "Set to cache reserved gift ids. May be useful when a single gift is tried many times.")
	flag.IntVar(&c.ReservesLimit, "reservesLimit", LookupEnvInt("RESERVES_LIMIT", 10), "Number of reservation attempts a single guest can make per hour.")
	flag.DurationVar(&c.CacheTTL, "cacheTTL", LookupEnvDuration("CACHE_TTL", time.Hour), "How long reserved gift ids stay cached, in time.ParseDuration format.")

	flag.StringVar(&c.SeedOwnerID, "seedOwnerID", LookupEnvString("SEED_OWNER_ID", "demo-owner"), "Account id that owns the seeded list (only for seed).")
	flag.StringVar(&c.SeedOwnerEmail, "seedOwnerEmail", LookupEnvString("SEED_OWNER_EMAIL", "demo@presenteio.local"), "Owner email on the seeded list (only for seed).")

	flag.Parse()

	return c
}
