package tenant

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 1)

	token, err := svc.Generate(42, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TenantID != 42 {
		t.Fatalf("expected tenant 42, got %d", claims.TenantID)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %q", claims.Role)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", 1).Generate(42, "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenService("secret-b", 1).Validate(token); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateRejectsZeroTenant(t *testing.T) {
	svc := NewTokenService("test-secret", 1)
	token, err := svc.Generate(0, "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Validate(token); err == nil {
		t.Fatal("expected validation to fail without a tenant id")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", 1)
	if _, err := svc.Validate("not.a.token"); err == nil {
		t.Fatal("expected validation to fail")
	}
}
