package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/armature-go/armature/app/models"
	"github.com/armature-go/armature/framework/config"
)

const refreshTokenBytes = 32

// TokenPair is what the token endpoints hand to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues short-lived HS256 access tokens and manages rotating
// refresh sessions. Refresh tokens are opaque random strings; only their
// SHA-256 hash is persisted.
type TokenService struct {
	auth     config.AuthConfig
	sessions RefreshSessionRepository
	log      zerolog.Logger
}

func NewTokenService(cfg *config.Config, sessions RefreshSessionRepository, logger zerolog.Logger) *TokenService {
	return &TokenService{auth: cfg.Auth, sessions: sessions, log: logger}
}

// ── Access tokens ─────────────────────────────────────────────────────────────

// IssueAccessToken signs an HS256 token with sub/iat/exp claims.
func (s *TokenService) IssueAccessToken(userID uuid.UUID) (string, error) {
	if s.auth.Secret == "" {
		return "", ErrTokensDisabled
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.auth.AccessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.Secret))
}

// DecodeAccessToken verifies signature and expiry and returns the subject.
func (s *TokenService) DecodeAccessToken(token string) (uuid.UUID, error) {
	if s.auth.Secret == "" {
		return uuid.Nil, ErrTokensDisabled
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.auth.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidCredentials
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return userID, nil
}

// ── Token pairs & refresh sessions ────────────────────────────────────────────

// IssuePair creates a fresh access token plus a new refresh session for the
// user, recording the requesting user agent and address.
func (s *TokenService) IssuePair(user *models.User, userAgent, ipAddress string) (TokenPair, error) {
	access, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	raw, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	now := time.Now().UTC()
	session := &models.RefreshSession{
		ID:         uuid.New(),
		UserID:     user.ID,
		TokenHash:  hashRefreshToken(raw),
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(s.auth.RefreshTTL),
	}
	if err := s.sessions.Save(session); err != nil {
		return TokenPair{}, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("refresh session created")
	return TokenPair{AccessToken: access, RefreshToken: raw}, nil
}

// Refresh rotates the refresh token and issues a new access token. The old
// refresh token stops working; expired sessions are dropped and reported.
func (s *TokenService) Refresh(refreshToken string) (TokenPair, error) {
	oldHash := hashRefreshToken(refreshToken)
	session, err := s.sessions.FindByTokenHash(oldHash)
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		_ = s.sessions.DeleteByTokenHash(oldHash)
		return TokenPair{}, ErrExpiredRefreshToken
	}

	raw, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.sessions.DeleteByTokenHash(oldHash); err != nil {
		return TokenPair{}, err
	}
	session.TokenHash = hashRefreshToken(raw)
	session.RotationCounter++
	session.LastUsedAt = now
	if err := s.sessions.Save(session); err != nil {
		return TokenPair{}, err
	}

	access, err := s.IssueAccessToken(session.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: raw}, nil
}

// Revoke ends the session behind refreshToken. The session must belong to
// userID; revoking someone else's token reads as an invalid token.
func (s *TokenService) Revoke(refreshToken string, userID uuid.UUID) error {
	hash := hashRefreshToken(refreshToken)
	session, err := s.sessions.FindByTokenHash(hash)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return ErrInvalidRefreshToken
	}
	return s.sessions.DeleteByTokenHash(hash)
}

// RevokeAll drops every refresh session for the user and returns the count.
func (s *TokenService) RevokeAll(userID uuid.UUID) int {
	n := s.sessions.DeleteForUser(userID)
	if n > 0 {
		s.log.Info().Str("user_id", userID.String()).Int("sessions", n).Msg("refresh sessions revoked")
	}
	return n
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
