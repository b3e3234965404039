// Package cache holds the Redis client used to queue game action records
// for asynchronous consumption by a historian process.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. Nil when Redis is not configured; callers
// must check before publishing.
var Rdb *redis.Client

// gameActionsQueue is the list key consumed by the historian.
const gameActionsQueue = "minpai:game_actions"

// Init connects the shared client and verifies the connection.
func Init(ctx context.Context, addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Close releases the shared client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// GameActionRecord is one logged game action, serialized to JSON on the
// queue.
type GameActionRecord struct {
	GameID      uuid.UUID              `json:"game_id"`
	ActionIndex int                    `json:"action_index"`
	ActorSide   string                 `json:"actor_side,omitempty"` // "human", "ai", or empty for game events
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   int64                  `json:"timestamp"` // unix milliseconds
}

// PublishGameAction pushes a record onto the historian queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := Rdb.RPush(ctx, gameActionsQueue, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", gameActionsQueue, err)
	}
	return nil
}
