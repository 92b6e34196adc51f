package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "finsight"

// Claims represents the JWT claims. The registered ID claim carries the token id.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	OwnerKey string    `json:"owner_key"`
	jwt.RegisteredClaims
}

// Subject is the signed-in principal a session is issued for
type Subject struct {
	UserID   uuid.UUID
	OwnerKey string
}

// Manager issues HS256 tokens and tracks them in a Store
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  Store
	now    func() time.Time
}

// NewManager creates a session manager
func NewManager(secret string, ttl time.Duration, store Store) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

// Issue signs a new token for sub and records it as live
func (m *Manager) Issue(ctx context.Context, sub Subject) (string, Session, error) {
	now := m.now()
	s := Session{
		UserID:    sub.UserID,
		OwnerKey:  sub.OwnerKey,
		TokenID:   uuid.New(),
		ExpiresAt: now.Add(m.ttl).Truncate(time.Second),
	}

	claims := &Claims{
		UserID:   s.UserID,
		OwnerKey: s.OwnerKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID.String(),
			Subject:   s.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return "", Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	return token, s, nil
}

// Resolve validates the token and requires its session to still be live and
// recorded for the same user and owner the token names
func (m *Manager) Resolve(ctx context.Context, token string) (Session, error) {
	s, err := m.parse(token)
	if err != nil {
		return Session{}, err
	}

	stored, live, err := m.store.Lookup(ctx, s.TokenID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to look up session: %w", err)
	}
	if !live {
		return Session{}, ErrSessionRevoked
	}
	if stored.UserID != s.UserID || stored.OwnerKey != s.OwnerKey {
		return Session{}, ErrSessionMismatch
	}

	return s, nil
}

// Revoke ends the token's session. Later Resolve calls fail with ErrSessionRevoked.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	s, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, s.TokenID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	s := Session{
		UserID:   claims.UserID,
		OwnerKey: claims.OwnerKey,
		TokenID:  tokenID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
