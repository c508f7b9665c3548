package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
)

const (
	testSecret        = "test-secret-at-least-32-chars-long!!"
	testAdminEmail    = "admin@shop.test"
	testAdminPassword = "sup3r-secret-admin"
)

// newTestTokenService creates a TokenService with a fixed, known secret so
// tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	return NewTokenService(testSecret, time.Hour, testAdminEmail, testAdminPassword)
}

// =========================================================================
// USER TOKEN TESTS
// =========================================================================

func TestGenerateUser_ReturnsJWTShape(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateUser("user-123")
	if err != nil {
		t.Fatalf("GenerateUser() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateUser() returned empty token")
	}

	// JWT tokens have 3 dot-separated parts: header.payload.signature
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("GenerateUser() token doesn't look like a JWT (%d parts)", len(parts))
	}
}

func TestValidateUser_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateUser("user-abc")
	if err != nil {
		t.Fatalf("GenerateUser() error = %v", err)
	}

	userID, err := ts.ValidateUser(token)
	if err != nil {
		t.Fatalf("ValidateUser() error = %v", err)
	}
	if userID != "user-abc" {
		t.Errorf("ValidateUser() = %q, want %q", userID, "user-abc")
	}
}

func TestValidateUser_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Issue a token with a 1-second lifetime and validate it after the
	// window has passed. Expiry is evaluated lazily at verification time.
	token, err := ts.GenerateUserWithLifetime("user-x", 1*time.Second)
	if err != nil {
		t.Fatalf("GenerateUserWithLifetime() error = %v", err)
	}

	time.Sleep(2 * time.Second)

	_, err = ts.ValidateUser(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateUser() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateUser_GarbageToken(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.ValidateUser("this.is.garbage")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateUser() error = %v, want ErrTokenMalformed", err)
	}
}

func TestValidateUser_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other := NewTokenService("another-secret-entirely-32-chars!", time.Hour, "", "")

	token, _ := other.GenerateUser("user-1")

	if _, err := ts.ValidateUser(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateUser() error = %v, want ErrTokenMalformed for foreign signature", err)
	}
}

func TestUserToken_MissingSecretIsConfigurationError(t *testing.T) {
	ts := NewTokenService("", time.Hour, "", "")

	if _, err := ts.GenerateUser("user-1"); !errors.Is(err, apperror.ErrConfiguration) {
		t.Errorf("GenerateUser() error = %v, want ErrConfiguration", err)
	}
	if _, err := ts.ValidateUser("a.b.c"); !errors.Is(err, apperror.ErrConfiguration) {
		t.Errorf("ValidateUser() error = %v, want ErrConfiguration", err)
	}
}

// =========================================================================
// ADMIN PROOF TESTS
// =========================================================================

func TestAdminProof_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	proof, err := ts.GenerateAdminProof()
	if err != nil {
		t.Fatalf("GenerateAdminProof() error = %v", err)
	}

	if err := ts.VerifyAdminProof(proof); err != nil {
		t.Errorf("VerifyAdminProof() rejected a freshly issued proof: %v", err)
	}
}

func TestAdminProof_RejectsForeignSignature(t *testing.T) {
	ts := newTestTokenService(t)

	// Same admin pair, different signing secret: the payload matches but
	// the signature does not.
	forger := NewTokenService("attacker-controlled-secret-32ch!!", time.Hour, testAdminEmail, testAdminPassword)
	forged, err := forger.GenerateAdminProof()
	if err != nil {
		t.Fatalf("GenerateAdminProof() error = %v", err)
	}

	if err := ts.VerifyAdminProof(forged); !errors.Is(err, ErrAdminProof) {
		t.Errorf("VerifyAdminProof() error = %v, want ErrAdminProof", err)
	}
}

func TestAdminProof_RejectsStaleCredentials(t *testing.T) {
	// A proof issued under an old admin pair must fail once the configured
	// pair changes — validity is exact equality against the CURRENT pair.
	old := NewTokenService(testSecret, time.Hour, testAdminEmail, "old-password")
	proof, _ := old.GenerateAdminProof()

	current := newTestTokenService(t)
	if err := current.VerifyAdminProof(proof); !errors.Is(err, ErrAdminProof) {
		t.Errorf("VerifyAdminProof() error = %v, want ErrAdminProof for stale pair", err)
	}
}

func TestAdminProof_RejectsUserToken(t *testing.T) {
	ts := newTestTokenService(t)

	userToken, _ := ts.GenerateUser("user-1")

	if err := ts.VerifyAdminProof(userToken); !errors.Is(err, ErrAdminProof) {
		t.Errorf("VerifyAdminProof() error = %v, want ErrAdminProof for a user token", err)
	}
}

func TestAdminProof_RejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d", "!!!.???.###"} {
		if err := ts.VerifyAdminProof(tok); !errors.Is(err, ErrAdminProof) {
			t.Errorf("VerifyAdminProof(%q) error = %v, want ErrAdminProof", tok, err)
		}
	}
}

// =========================================================================
// ADMIN CREDENTIALS TESTS
// =========================================================================

func TestAdminCredentialsMatch(t *testing.T) {
	ts := newTestTokenService(t)

	if !ts.AdminCredentialsMatch(testAdminEmail, testAdminPassword) {
		t.Error("AdminCredentialsMatch() rejected the exact configured pair")
	}

	// Any single-character mutation of either value must fail.
	if ts.AdminCredentialsMatch(testAdminEmail+"x", testAdminPassword) {
		t.Error("AdminCredentialsMatch() accepted a mutated email")
	}
	if ts.AdminCredentialsMatch(testAdminEmail, testAdminPassword+"x") {
		t.Error("AdminCredentialsMatch() accepted a mutated password")
	}
}

func TestAdminCredentialsMatch_UnconfiguredPairNeverMatches(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour, "", "")

	if ts.AdminCredentialsMatch("", "") {
		t.Error("AdminCredentialsMatch() accepted empty credentials against an unconfigured pair")
	}
}

func TestAdminCredentialsMatch_HalfConfiguredPairNeverMatches(t *testing.T) {
	// With only one half of the pair set, presenting an empty value for the
	// unset half must not authenticate.
	onlyPassword := NewTokenService(testSecret, time.Hour, "", testAdminPassword)
	if onlyPassword.AdminCredentialsMatch("", testAdminPassword) {
		t.Error("AdminCredentialsMatch() accepted an empty email against an unset admin email")
	}

	onlyEmail := NewTokenService(testSecret, time.Hour, testAdminEmail, "")
	if onlyEmail.AdminCredentialsMatch(testAdminEmail, "") {
		t.Error("AdminCredentialsMatch() accepted an empty password against an unset admin password")
	}
}
