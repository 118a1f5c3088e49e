package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the Redis surface stores depend on
type Client interface {
	redis.UniversalClient
}
