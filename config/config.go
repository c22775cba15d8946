package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the global PostgreSQL database connection.
var DB *gorm.DB

// Rdb is the global Redis client.
var Rdb *redis.Client

// Ctx is the context for Redis operations.
var Ctx = context.Background()

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// TranslateError lets callers match gorm.ErrDuplicatedKey on unique
	// constraint violations instead of driver-specific error codes.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to the database: ", err)
	}
}

// InitRedis initializes the Redis connection.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Rdb.Ping(Ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
}

func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func PolygonAPIKey() string {
	return os.Getenv("POLYGON_API_KEY")
}

// PriceCacheTTL controls how long fetched market prices stay in Redis.
func PriceCacheTTL() time.Duration {
	if v := os.Getenv("PRICE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn("Invalid PRICE_CACHE_TTL, using default")
	}
	return 5 * time.Minute
}

// MaxPortfoliosPerUser returns the per-user portfolio limit. Zero means
// unlimited, which is the default.
func MaxPortfoliosPerUser() int {
	if v := os.Getenv("MAX_PORTFOLIOS_PER_USER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		log.Warn("Invalid MAX_PORTFOLIOS_PER_USER, using default")
	}
	return 0
}

func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
