package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, userID string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	v := NewValidator("test-secret")
	tok := signToken(t, "test-secret", "user-1", jwt.SigningMethodHS256)

	userID, err := v.Validate(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("user id = %q, want %q", userID, "user-1")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	v := NewValidator("right-secret")
	tok := signToken(t, "wrong-secret", "user-1", jwt.SigningMethodHS256)

	if _, err := v.Validate(tok); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestValidateRejectsEmptyUserID(t *testing.T) {
	v := NewValidator("s")
	tok := signToken(t, "s", "", jwt.SigningMethodHS256)

	if _, err := v.Validate(tok); err == nil {
		t.Fatal("expected error for token without a user id")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	v := NewValidator("s")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := v.Validate(signed); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "", wantErr: true},
		{header: "abc", wantErr: true},
		{header: "Basic abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Errorf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil {
			t.Errorf("header %q: %v", tc.header, err)
			continue
		}
		if got != tc.want {
			t.Errorf("header %q: token = %q, want %q", tc.header, got, tc.want)
		}
	}
}
