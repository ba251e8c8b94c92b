package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/config"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "fixpoint",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	orgID := uuid.New()

	payload := AccessTokenPayload{
		UserID:      userID,
		AccountRole: enums.AccountRoleMaintenance,
		ActiveOrgID: &orgID,
		Role:        enums.MemberRoleProviderAdmin,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.AccountRole != enums.AccountRoleMaintenance {
		t.Fatalf("unexpected account role %s", claims.AccountRole)
	}
	if claims.ActiveOrgID == nil || *claims.ActiveOrgID != orgID {
		t.Fatalf("active org id not preserved")
	}
	if claims.Role != enums.MemberRoleProviderAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be assigned")
	}
}

func TestMintAccessTokenWithoutMembership(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "fixpoint",
		ExpirationMinutes: 30,
	}

	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:      uuid.New(),
		AccountRole: enums.AccountRoleStore,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ActiveOrgID != nil {
		t.Fatal("expected no active org for fresh account")
	}
	if claims.Role != "" {
		t.Fatalf("expected empty role, got %q", claims.Role)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "fixpoint", ExpirationMinutes: 30}
	parseCfg := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 30}

	token, err := MintAccessToken(mintCfg, time.Now().UTC(), AccessTokenPayload{
		UserID:      uuid.New(),
		AccountRole: enums.AccountRoleStore,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintAccessTokenRejectsUnknownAccountRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "fixpoint", ExpirationMinutes: 30}
	_, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		UserID:      uuid.New(),
		AccountRole: enums.AccountRole("superuser"),
	})
	if err == nil {
		t.Fatal("expected invalid account role to fail")
	}
}
