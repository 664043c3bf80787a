package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// NewRedis creates the client shared by the code store and the publisher.
func NewRedis(addr, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	log.Printf("Redis client created (addr: %s)", addr)
	return rdb
}

type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, kind models.NotificationKind, data map[string]interface{}) error
}

// RedisPublisher pushes to the per-user channel that frontends subscribe to.
type RedisPublisher struct {
	RDB *redis.Client
}

func Channel(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

func (p *RedisPublisher) Publish(ctx context.Context, userID uuid.UUID, kind models.NotificationKind, data map[string]interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": data,
	})
	if err != nil {
		return err
	}
	return p.RDB.Publish(ctx, Channel(userID), payload).Err()
}
