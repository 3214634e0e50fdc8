package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleancloak-bot/internal/wizard"
	"cleancloak-bot/pkg/redis"
)

// ErrNoState means the chat has no wizard in progress.
var ErrNoState = errors.New("no wizard state")

// StateStorage persists per-chat wizard snapshots in redis so a restart or
// a second bot instance picks up mid-flow conversations.
type StateStorage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStateStorage(redisClient *redis.Client) *StateStorage {
	return &StateStorage{
		redis: redisClient,
		ttl:   24 * time.Hour,
	}
}

func getStateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state wizard.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.redis.Set(ctx, getStateKey(chatID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *StateStorage) Get(ctx context.Context, chatID int64) (wizard.State, error) {
	data, err := s.redis.Get(ctx, getStateKey(chatID))
	if errors.Is(err, redis.ErrNotFound) {
		return wizard.State{}, ErrNoState
	}
	if err != nil {
		return wizard.State{}, fmt.Errorf("failed to get state: %w", err)
	}

	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return wizard.State{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state, nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, getStateKey(chatID)); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
