package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"connector/internal/domain"
)

const (
	authorizationKeyPrefix = "testsuite:authorization:"
	authorizationTTL       = 7 * 24 * time.Hour
)

// AuthorizationStore persists authorize responses produced in test-suite
// mode so a retried authorize returns the same answer.
type AuthorizationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAuthorizationStore(client *redis.Client) *AuthorizationStore {
	return &AuthorizationStore{client: client, ttl: authorizationTTL}
}

func (s *AuthorizationStore) Get(ctx context.Context, paymentID string) (*domain.AuthorizationResponse, error) {
	data, err := s.client.Get(ctx, authorizationKeyPrefix+paymentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stored authorization %s: %w", paymentID, err)
	}

	var resp domain.AuthorizationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode stored authorization %s: %w", paymentID, err)
	}
	return &resp, nil
}

func (s *AuthorizationStore) Save(ctx context.Context, paymentID string, resp domain.AuthorizationResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode authorization %s: %w", paymentID, err)
	}
	if err := s.client.Set(ctx, authorizationKeyPrefix+paymentID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store authorization %s: %w", paymentID, err)
	}
	return nil
}
