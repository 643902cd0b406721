package oauth

import (
	"context"
	"errors"
	"fmt"

	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/pkg/logger"

	"golang.org/x/oauth2"
)

// ErrNoToken reports that the local store holds no access token
var ErrNoToken = errors.New("no access token in local store")

// StoreTokenSource is an oauth2.TokenSource backed by the local key/value
// store. The token is read on every request so a re-seeded credential takes
// effect without a restart; eviction after a 401 makes subsequent requests
// fail here instead of reaching the backend.
type StoreTokenSource struct {
	store  repository.KeyValueStore
	logger logger.Logger
}

// NewStoreTokenSource creates a token source over the local store
func NewStoreTokenSource(store repository.KeyValueStore, logger logger.Logger) *StoreTokenSource {
	return &StoreTokenSource{
		store:  store,
		logger: logger,
	}
}

// Token implements oauth2.TokenSource
func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	value, found, err := s.store.Get(context.Background(), repository.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if !found || value == "" {
		return nil, ErrNoToken
	}

	return &oauth2.Token{
		AccessToken: value,
		TokenType:   "Bearer",
	}, nil
}
