package gateway

import (
	"context"
	"time"
)

// TokenCache keeps access tokens between requests. Get reports a miss with
// ok == false and a nil error.
type TokenCache interface {
	Get(ctx context.Context, key string) (token string, ok bool, err error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// tokenExpiryMargin is subtracted from the advertised lifetime so a cached
// token is never used right at its expiry.
const (
	tokenExpiryMargin = 60 * time.Second
	defaultTokenTTL   = 5 * time.Minute
)

func tokenTTL(expiresIn int64) time.Duration {
	if expiresIn <= 0 {
		return defaultTokenTTL
	}
	ttl := time.Duration(expiresIn)*time.Second - tokenExpiryMargin
	if ttl <= 0 {
		return time.Duration(expiresIn) * time.Second
	}
	return ttl
}

func tokenCacheKey(creds Credentials) string {
	env := "live"
	if creds.Sandbox {
		env = "sandbox"
	}
	return "gateway:token:" + env + ":" + creds.ClientID
}
