package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/armature-go/armature/app/models"
	"github.com/armature-go/armature/app/services"
	"github.com/armature-go/armature/framework/config"
)

func tokenConfig(secret string, accessTTL, refreshTTL time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Secret = secret
	cfg.Auth.AccessTTL = accessTTL
	cfg.Auth.RefreshTTL = refreshTTL
	return cfg
}

func newTokenService(cfg *config.Config) *services.TokenService {
	return services.NewTokenService(cfg, services.NewMemoryRefreshSessionRepository(), zerolog.Nop())
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Username: "alice"}
}

// ── access tokens ────────────────────────────────────────────────────────────

func TestTokenService_AccessToken_RoundTrip(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	got, err := svc.DecodeAccessToken(token)
	if err != nil {
		t.Fatalf("DecodeAccessToken: %v", err)
	}
	if got != userID {
		t.Errorf("subject = %s, want %s", got, userID)
	}
}

func TestTokenService_DecodeAccessToken_RejectsWrongSecret(t *testing.T) {
	issuer := newTokenService(tokenConfig("secret-a", 15*time.Minute, time.Hour))
	verifier := newTokenService(tokenConfig("secret-b", 15*time.Minute, time.Hour))

	token, err := issuer.IssueAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := verifier.DecodeAccessToken(token); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenService_DecodeAccessToken_RejectsExpired(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", -time.Minute, time.Hour))

	token, err := svc.IssueAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := svc.DecodeAccessToken(token); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestTokenService_DecodeAccessToken_RejectsGarbage(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	if _, err := svc.DecodeAccessToken("not.a.token"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenService_EmptySecret_DisablesTokens(t *testing.T) {
	svc := newTokenService(tokenConfig("", 15*time.Minute, time.Hour))
	if _, err := svc.IssueAccessToken(uuid.New()); !errors.Is(err, services.ErrTokensDisabled) {
		t.Errorf("expected ErrTokensDisabled, got %v", err)
	}
}

// ── refresh sessions ─────────────────────────────────────────────────────────

func TestTokenService_IssuePair_ReturnsDistinctTokens(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))

	pair, err := svc.IssuePair(testUser(), "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete pair: %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}
}

func TestTokenService_Refresh_RotatesToken(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	user := testUser()

	pair, err := svc.IssuePair(user, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	rotated, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// the rotated access token still names the same user
	userID, err := svc.DecodeAccessToken(rotated.AccessToken)
	if err != nil {
		t.Fatalf("DecodeAccessToken: %v", err)
	}
	if userID != user.ID {
		t.Errorf("subject = %s, want %s", userID, user.ID)
	}

	// the old refresh token is dead
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, services.ErrInvalidRefreshToken) {
		t.Errorf("old token after rotation: expected ErrInvalidRefreshToken, got %v", err)
	}

	// the new one still works
	if _, err := svc.Refresh(rotated.RefreshToken); err != nil {
		t.Errorf("rotated token should refresh again: %v", err)
	}
}

func TestTokenService_Refresh_ExpiredSessionIsDropped(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, -time.Minute))

	pair, err := svc.IssuePair(testUser(), "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, services.ErrExpiredRefreshToken) {
		t.Fatalf("expected ErrExpiredRefreshToken, got %v", err)
	}
	// the expired session is gone, not just rejected
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, services.ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken after drop, got %v", err)
	}
}

func TestTokenService_Refresh_UnknownToken(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	if _, err := svc.Refresh("never-issued"); !errors.Is(err, services.ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

// ── revocation ───────────────────────────────────────────────────────────────

func TestTokenService_Revoke_EndsSession(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	user := testUser()

	pair, err := svc.IssuePair(user, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if err := svc.Revoke(pair.RefreshToken, user.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, services.ErrInvalidRefreshToken) {
		t.Errorf("revoked token should not refresh, got %v", err)
	}
}

func TestTokenService_Revoke_RejectsForeignSession(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	owner := testUser()

	pair, err := svc.IssuePair(owner, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if err := svc.Revoke(pair.RefreshToken, uuid.New()); !errors.Is(err, services.ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken for foreign revoke, got %v", err)
	}
	// the owner's session is untouched
	if _, err := svc.Refresh(pair.RefreshToken); err != nil {
		t.Errorf("session should survive foreign revoke attempt: %v", err)
	}
}

func TestTokenService_RevokeAll_DropsEverySession(t *testing.T) {
	svc := newTokenService(tokenConfig("signing-secret", 15*time.Minute, time.Hour))
	user := testUser()

	first, _ := svc.IssuePair(user, "agent-1", "127.0.0.1")
	second, _ := svc.IssuePair(user, "agent-2", "127.0.0.2")

	if n := svc.RevokeAll(user.ID); n != 2 {
		t.Errorf("RevokeAll = %d, want 2", n)
	}
	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		if _, err := svc.Refresh(token); !errors.Is(err, services.ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken after RevokeAll, got %v", err)
		}
	}
}
