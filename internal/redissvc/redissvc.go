package redissvc

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis at addr. It returns nil when addr is empty or
// the server does not answer a ping, so callers can fall back to in-process
// stores.
func NewClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, using in-memory sessions")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Could not connect to Redis at %s: %v", addr, err)
		_ = rdb.Close()
		return nil
	}

	log.Printf("✅ Connected to Redis at %s", addr)
	return rdb
}
