package session

// SIGNED-IN USER SESSIONS

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleancloak-bot/pkg/redis"
)

// ErrNotFound means no session exists for the chat.
var ErrNotFound = errors.New("session: not found")

// Session is the stored identity of a signed-in user. It outlives any
// single booking draft, so a returning client skips the account stage.
type Session struct {
	UserType     string    `json:"userType"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// Provider loads and stores sessions keyed by chat.
type Provider interface {
	Load(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, chatID int64, s Session) error
	Clear(ctx context.Context, chatID int64) error
}

type redisProvider struct {
	client *redis.Client
}

func NewRedisProvider(client *redis.Client) Provider {
	return &redisProvider{client: client}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

func (p *redisProvider) Load(ctx context.Context, chatID int64) (*Session, error) {
	var s Session
	err := p.client.GetJSON(ctx, sessionKey(chatID), &s)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (p *redisProvider) Save(ctx context.Context, chatID int64, s Session) error {
	if err := p.client.SetJSON(ctx, sessionKey(chatID), s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *redisProvider) Clear(ctx context.Context, chatID int64) error {
	if err := p.client.Del(ctx, sessionKey(chatID)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
