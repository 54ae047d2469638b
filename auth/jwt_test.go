package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"pixbatch/models"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var testSecret = []byte("test-secret-key-for-jwt-signing-at-least-32-bytes-long")

func TestCreateAndVerify(t *testing.T) {
	token, err := CreateToken(NewClaims("pixbatch", "alice", time.Hour), testSecret)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	claims, err := VerifyToken(token, VerifyConfig{SecretKey: testSecret, ExpectedIssuer: "pixbatch"})
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "alice" || claims.Issuer != "pixbatch" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestVerifyFailures(t *testing.T) {
	now := time.Now().Unix()
	sign := func(c *models.BatchClaims) string {
		token, err := CreateToken(c, testSecret)
		if err != nil {
			t.Fatalf("CreateToken failed: %v", err)
		}
		return token
	}

	cases := []struct {
		name  string
		token string
		cfg   VerifyConfig
		want  error
	}{
		{"empty", "", VerifyConfig{SecretKey: testSecret}, ErrInvalidToken},
		{"garbage", "not.a.jwt", VerifyConfig{SecretKey: testSecret}, ErrInvalidToken},
		{"no key", sign(&models.BatchClaims{Subject: "a"}), VerifyConfig{}, ErrNoKey},
		{"wrong secret", sign(&models.BatchClaims{Subject: "a"}), VerifyConfig{SecretKey: []byte("another-secret-key-that-is-also-32-bytes!")}, ErrInvalidSignature},
		{"expired", sign(&models.BatchClaims{Subject: "a", ExpiresAt: now - 3600}), VerifyConfig{SecretKey: testSecret}, ErrTokenExpired},
		{"issued in future", sign(&models.BatchClaims{Subject: "a", IssuedAt: now + 3600}), VerifyConfig{SecretKey: testSecret}, ErrTokenNotYetValid},
		{"wrong issuer", sign(&models.BatchClaims{Issuer: "other", Subject: "a"}), VerifyConfig{SecretKey: testSecret, ExpectedIssuer: "pixbatch"}, ErrInvalidIssuer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyToken(tc.token, tc.cfg); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClockSkew(t *testing.T) {
	token, _ := CreateToken(&models.BatchClaims{Subject: "a", ExpiresAt: time.Now().Unix() - 30}, testSecret)
	if _, err := VerifyToken(token, VerifyConfig{SecretKey: testSecret, ClockSkew: time.Minute}); err != nil {
		t.Errorf("Token within clock skew should verify: %v", err)
	}
}

func TestVerifyRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, nil)
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}
	token, err := jwt.Signed(signer).Claims(&models.BatchClaims{Subject: "rsa-user"}).Serialize()
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}

	claims, err := VerifyToken(token, VerifyConfig{PublicKey: &key.PublicKey})
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "rsa-user" {
		t.Errorf("Unexpected subject %q", claims.Subject)
	}

	// an RS256 token is not accepted when only a secret is configured
	if _, err := VerifyToken(token, VerifyConfig{SecretKey: testSecret}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":    "abc",
		"bearer  xyz ":  "xyz",
		"Basic abc":     "",
		"Bearer":        "",
		"":              "",
		"Bearer    ":    "",
	} {
		got, err := BearerToken(header)
		if want == "" {
			if !errors.Is(err, ErrMissingToken) {
				t.Errorf("BearerToken(%q): expected ErrMissingToken, got %q, %v", header, got, err)
			}
			continue
		}
		if err != nil || got != want {
			t.Errorf("BearerToken(%q) = %q, %v; want %q", header, got, err, want)
		}
	}
}

func TestCreateTokenRequiresSecret(t *testing.T) {
	if _, err := CreateToken(&models.BatchClaims{}, nil); !errors.Is(err, ErrNoKey) {
		t.Errorf("Expected ErrNoKey, got %v", err)
	}
	if _, err := CreateToken(nil, testSecret); err == nil {
		t.Error("Expected an error for nil claims")
	}
}
