// File: services/assistant/store.go
package assistant

import (
	"context"
	"encoding/json"
	"time"

	"appointmint/models"
	"appointmint/utils"

	"github.com/go-redis/redis/v8"
)

// ConversationStore persists per-conversation engine state between turns.
// Keys are composite: the same raw conversation id on two restaurants must
// not collide.
type ConversationStore interface {
	Load(ctx context.Context, restaurantID, conversationID string) (*models.ConversationState, error)
	Save(ctx context.Context, restaurantID, conversationID string, st *models.ConversationState) error
	Clear(ctx context.Context, restaurantID, conversationID string) error
}

type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisConversationStore(client *redis.Client, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{client: client, ttl: ttl}
}

func stateKey(restaurantID, conversationID string) string {
	return utils.ConversationStatePrefix + restaurantID + ":" + conversationID
}

// Load returns nil when no state exists for the conversation.
func (s *RedisConversationStore) Load(ctx context.Context, restaurantID, conversationID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, stateKey(restaurantID, conversationID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st models.ConversationState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *RedisConversationStore) Save(ctx context.Context, restaurantID, conversationID string, st *models.ConversationState) error {
	st.UpdatedAt = time.Now()
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stateKey(restaurantID, conversationID), b, s.ttl).Err()
}

func (s *RedisConversationStore) Clear(ctx context.Context, restaurantID, conversationID string) error {
	return s.client.Del(ctx, stateKey(restaurantID, conversationID)).Err()
}
