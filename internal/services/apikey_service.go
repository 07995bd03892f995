package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"account-api/internal/authz"
	"account-api/internal/logger"
	"account-api/internal/models"
	"account-api/internal/pkg/errors"
	"account-api/internal/repository"
)

const (
	apiKeyPrefix   = "ak_"
	apiKeyBytes    = 32
	apiKeyCacheTTL = 5 * time.Minute
)

// APIKeyService manages the lifecycle of user API keys. Keys are stored as
// HMAC-SHA256 digests: deterministic, so the authentication path can look a
// presented key up by digest without a per-row comparison.
type APIKeyService interface {
	GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error)
	Generate(ctx context.Context, user *models.User) (string, error)
	Revoke(ctx context.Context, user *models.User) error
	Authenticate(ctx context.Context, plaintext string) (*models.User, error)
	StaleKeys(ctx context.Context, actx authz.Context, cutoff time.Time) ([]models.APIKey, error)
	HashKey(plaintext string) string
	VerifyKey(plaintext, keyHash string) bool
}

type apiKeyService struct {
	apiKeyRepo repository.APIKeyRepository
	cache      CacheService
	secret     []byte
}

func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository, cache CacheService, secret string) APIKeyService {
	return &apiKeyService{
		apiKeyRepo: apiKeyRepo,
		cache:      cache,
		secret:     []byte(secret),
	}
}

func (s *apiKeyService) GetByUserID(ctx context.Context, actx authz.Context, userID uuid.UUID) (*models.APIKey, error) {
	return s.apiKeyRepo.GetByUserID(ctx, actx, userID)
}

// Generate creates a new API key for the user, replacing any existing one.
// The plaintext is returned exactly once and never stored.
func (s *apiKeyService) Generate(ctx context.Context, user *models.User) (string, error) {
	if existing, err := s.apiKeyRepo.GetByUserID(ctx, nil, user.ID); err == nil {
		if err := s.apiKeyRepo.Delete(ctx, existing); err != nil {
			return "", err
		}
		s.invalidate(ctx, existing.KeyHash)
	} else if err != errors.ErrNotFound {
		return "", err
	}

	raw := make([]byte, apiKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "failed to generate API key")
	}
	plaintext := apiKeyPrefix + base64.RawURLEncoding.EncodeToString(raw)

	apiKey := &models.APIKey{
		UserID:  user.ID,
		KeyHash: s.HashKey(plaintext),
		Prefix:  plaintext[:8],
	}
	if err := s.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return "", err
	}

	return plaintext, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, user *models.User) error {
	apiKey, err := s.apiKeyRepo.GetByUserID(ctx, nil, user.ID)
	if err != nil {
		return err
	}
	if err := s.apiKeyRepo.Delete(ctx, apiKey); err != nil {
		return err
	}
	s.invalidate(ctx, apiKey.KeyHash)
	return nil
}

type cachedAPIKey struct {
	KeyID   uuid.UUID    `json:"key_id"`
	KeyHash string       `json:"key_hash"`
	User    *models.User `json:"user"`
}

// Authenticate resolves a presented API key to its owner. Lookups are fronted
// by the cache; hits are re-verified against the stored digest and still
// stamp last_used_at.
func (s *apiKeyService) Authenticate(ctx context.Context, plaintext string) (*models.User, error) {
	keyHash := s.HashKey(plaintext)

	if data, err := s.cache.Get(ctx, cacheKey(keyHash)); err == nil {
		var cached cachedAPIKey
		if err := json.Unmarshal([]byte(data), &cached); err == nil && cached.User != nil && s.VerifyKey(plaintext, cached.KeyHash) {
			if err := s.apiKeyRepo.TouchLastUsed(ctx, cached.KeyID); err != nil {
				// Key was revoked between cache fill and now.
				s.invalidate(ctx, keyHash)
				return nil, errors.ErrInvalidCredentials
			}
			return cached.User, nil
		}
	}

	apiKey, err := s.apiKeyRepo.GetByKeyHash(ctx, keyHash)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	if apiKey.User == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := s.apiKeyRepo.TouchLastUsed(ctx, apiKey.ID); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := s.cache.Set(ctx, cacheKey(keyHash), cachedAPIKey{KeyID: apiKey.ID, KeyHash: apiKey.KeyHash, User: apiKey.User}, apiKeyCacheTTL); err != nil {
		logger.Logger.WithError(err).Warn("failed to cache API key lookup")
	}

	return apiKey.User, nil
}

// StaleKeys lists keys unused since the cutoff. Restricted to admins and
// system operations.
func (s *apiKeyService) StaleKeys(ctx context.Context, actx authz.Context, cutoff time.Time) ([]models.APIKey, error) {
	if !authz.IsSystem(actx) && actx.UserRole() != authz.RoleAdmin {
		return nil, errors.ErrPermissionDenied
	}
	return s.apiKeyRepo.ListStale(ctx, cutoff)
}

// HashKey digests an API key for storage using HMAC-SHA256.
func (s *apiKeyService) HashKey(plaintext string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyKey compares a presented key against a stored digest in constant time.
func (s *apiKeyService) VerifyKey(plaintext, keyHash string) bool {
	return hmac.Equal([]byte(s.HashKey(plaintext)), []byte(keyHash))
}

func (s *apiKeyService) invalidate(ctx context.Context, keyHash string) {
	if err := s.cache.Delete(ctx, cacheKey(keyHash)); err != nil {
		logger.Logger.WithError(err).Warn("failed to invalidate API key cache entry")
	}
}

func cacheKey(keyHash string) string {
	return fmt.Sprintf("apikey:%s", keyHash)
}
