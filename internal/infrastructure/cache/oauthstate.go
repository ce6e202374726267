package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// OAuthStatePrefix is the Redis key prefix for OAuth login states
	OAuthStatePrefix = "oauth:state:"
	// OAuthStateTTL bounds how long a login attempt stays resumable
	OAuthStateTTL = 10 * time.Minute
)

// OAuthState carries what the callback needs to finish a login: the PKCE
// verifier for the code exchange and the path to land on afterwards.
type OAuthState struct {
	CodeVerifier string `json:"code_verifier"`
	NextPath     string `json:"next_path,omitempty"`
}

// OAuthStateStore keeps in-flight OAuth login states in Redis, keyed by
// the state parameter. States are one-time use.
type OAuthStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewOAuthStateStore creates a new OAuth state store
func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{
		client: client,
		prefix: OAuthStatePrefix,
		ttl:    OAuthStateTTL,
	}
}

// Store saves the login state under the state parameter
func (s *OAuthStateStore) Store(ctx context.Context, state string, data OAuthState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if data.CodeVerifier == "" {
		return errors.New("code verifier cannot be empty")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(state), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state in Redis: %w", err)
	}

	return nil
}

// Consume retrieves and deletes the login state (one-time use)
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (*OAuthState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.buildKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.New("state not found or expired")
		}
		return nil, fmt.Errorf("failed to retrieve oauth state from Redis: %w", err)
	}

	var out OAuthState
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}

	return &out, nil
}

// buildKey constructs the full Redis key
func (s *OAuthStateStore) buildKey(state string) string {
	return s.prefix + state
}
