package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mcarreira/lingohub/internal/auth"
)

func TestIssueThenVerifyRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	tokenStr, err := m.IssueAccessToken("user-123", "teacher")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.VerifyAccessToken(tokenStr)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Subject != "user-123" {
		t.Fatalf("got subject %q, want %q", claims.Subject, "user-123")
	}

	if claims.Role != "teacher" {
		t.Fatalf("got role %q, want %q", claims.Role, "teacher")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	// negative TTL puts exp in the past at issue time
	m := auth.NewManager("test-secret", -time.Minute)

	tokenStr, err := m.IssueAccessToken("user-123", "student")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = m.VerifyAccessToken(tokenStr)

	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("got err %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	tokenStr, err := issuer.IssueAccessToken("user-123", "student")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = verifier.VerifyAccessToken(tokenStr)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got err %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	_, err := m.VerifyAccessToken("not.a.jwt")

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got err %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	secret := []byte("test-secret")

	// hand-built token without a sub claim
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	tokenStr, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	m := auth.NewManager("test-secret", time.Hour)

	_, err = m.VerifyAccessToken(tokenStr)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got err %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsNonHMACAlg(t *testing.T) {
	// alg=none style tokens must not pass
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	m := auth.NewManager("test-secret", time.Hour)

	_, err = m.VerifyAccessToken(tokenStr)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got err %v, want ErrTokenInvalid", err)
	}
}
