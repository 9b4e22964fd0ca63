package adapter

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client for the given address, defaulting to the
// local instance when addr is empty.
func NewRedisClient(addr string) redis.UniversalClient {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
}
