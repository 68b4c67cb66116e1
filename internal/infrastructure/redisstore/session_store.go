package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vbeltrame/stockflow-api/internal/application/auth"
)

var _ auth.SessionStore = (*SessionStore)(nil)

// TTLs dos fluxos: as sessões TOTP duram 10 minutos; a de reset segue a
// expiração do token (15 minutos).
const (
	setupSessionTTL = 10 * time.Minute
	loginSessionTTL = 10 * time.Minute
	resetSessionTTL = 15 * time.Minute
)

const (
	setupKeyPrefix = "session:totp-setup:"
	loginKeyPrefix = "session:totp-login:"
	resetKeyPrefix = "session:reset:"
)

// SessionStore implementação de auth.SessionStore sobre Redis.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore constrói o store com o cliente Redis.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// CreateSetupSession abre a sessão do setup TOTP.
func (s *SessionStore) CreateSetupSession(ctx context.Context, userID string) (string, error) {
	return s.create(ctx, setupKeyPrefix, userID, setupSessionTTL)
}

// GetSetupSession devolve o userID da sessão, ou vazio se expirou.
func (s *SessionStore) GetSetupSession(ctx context.Context, sessionID string) (string, error) {
	return s.get(ctx, setupKeyPrefix+sessionID)
}

// DeleteSetupSession encerra a sessão de setup.
func (s *SessionStore) DeleteSetupSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, setupKeyPrefix+sessionID).Err()
}

// CreateLoginSession abre a sessão da verificação TOTP do login.
func (s *SessionStore) CreateLoginSession(ctx context.Context, userID string) (string, error) {
	return s.create(ctx, loginKeyPrefix, userID, loginSessionTTL)
}

// GetLoginSession devolve o userID da sessão, ou vazio se expirou.
func (s *SessionStore) GetLoginSession(ctx context.Context, sessionID string) (string, error) {
	return s.get(ctx, loginKeyPrefix+sessionID)
}

// DeleteLoginSession encerra a sessão de login.
func (s *SessionStore) DeleteLoginSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, loginKeyPrefix+sessionID).Err()
}

// CreateResetSession abre a sessão de reset de senha com o token gerado.
func (s *SessionStore) CreateResetSession(ctx context.Context, sess *auth.ResetSession) (string, error) {
	sessionID := uuid.New().String()
	if err := s.putReset(ctx, sessionID, sess, resetSessionTTL); err != nil {
		return "", err
	}
	return sessionID, nil
}

// GetResetSession devolve a sessão de reset, ou nil se expirou.
func (s *SessionStore) GetResetSession(ctx context.Context, sessionID string) (*auth.ResetSession, error) {
	data, err := s.rdb.Get(ctx, resetKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get reset session: %w", err)
	}
	var sess auth.ResetSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode reset session: %w", err)
	}
	return &sess, nil
}

// UpdateResetSession regrava a sessão preservando o TTL restante.
func (s *SessionStore) UpdateResetSession(ctx context.Context, sessionID string, sess *auth.ResetSession) error {
	return s.putReset(ctx, sessionID, sess, redis.KeepTTL)
}

// DeleteResetSession encerra a sessão de reset.
func (s *SessionStore) DeleteResetSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, resetKeyPrefix+sessionID).Err()
}

func (s *SessionStore) create(ctx context.Context, prefix, userID string, ttl time.Duration) (string, error) {
	sessionID := uuid.New().String()
	if err := s.rdb.Set(ctx, prefix+sessionID, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return sessionID, nil
}

func (s *SessionStore) get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get session: %w", err)
	}
	return val, nil
}

func (s *SessionStore) putReset(ctx context.Context, sessionID string, sess *auth.ResetSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode reset session: %w", err)
	}
	if err := s.rdb.Set(ctx, resetKeyPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set reset session: %w", err)
	}
	return nil
}
