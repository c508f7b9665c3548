package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
)

// fakeUserRepo is the minimal in-memory store the gates need.
type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return u, nil
}

// gateTestSetup returns a token service, a repo seeded with one user, and
// that user's ID.
func gateTestSetup(t *testing.T) (*TokenService, *fakeUserRepo, string) {
	t.Helper()
	ts := newTestTokenService(t)
	repo := &fakeUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Name: "Ann", Email: "ann@x.com"},
	}}
	return ts, repo, "user-1"
}

// okHandler records whether it ran and what user it saw in the context.
type okHandler struct {
	ran  bool
	user *model.User
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ran = true
	h.user, _ = UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func decodeGateError(t *testing.T, rec *httptest.ResponseRecorder) gateError {
	t.Helper()
	var ge gateError
	if err := json.NewDecoder(rec.Body).Decode(&ge); err != nil {
		t.Fatalf("decoding gate error body: %v", err)
	}
	return ge
}

// =========================================================================
// USER GATE TESTS
// =========================================================================

func TestRequireUser_ValidToken(t *testing.T) {
	ts, repo, userID := gateTestSetup(t)
	next := &okHandler{}
	gate := RequireUser(ts, repo)(next)

	token, _ := ts.GenerateUser(userID)
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !next.ran {
		t.Fatal("downstream handler did not run")
	}
	if next.user == nil || next.user.ID != userID {
		t.Errorf("context user = %+v, want ID %q", next.user, userID)
	}
}

func TestRequireUser_MissingToken(t *testing.T) {
	ts, repo, _ := gateTestSetup(t)
	next := &okHandler{}
	gate := RequireUser(ts, repo)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if next.ran {
		t.Fatal("downstream handler ran without a token")
	}
	if got := decodeGateError(t, rec).Message; got != "Not Authorized. Please login again." {
		t.Errorf("message = %q", got)
	}
}

func TestRequireUser_ExpiredToken(t *testing.T) {
	ts, repo, userID := gateTestSetup(t)
	gate := RequireUser(ts, repo)(&okHandler{})

	token, _ := ts.GenerateUserWithLifetime(userID, -time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeGateError(t, rec).Message; got != "Token expired. Please login again." {
		t.Errorf("message = %q", got)
	}
}

func TestRequireUser_MalformedToken(t *testing.T) {
	ts, repo, _ := gateTestSetup(t)
	gate := RequireUser(ts, repo)(&okHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set(TokenHeader, "not-a-jwt")
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeGateError(t, rec).Message; got != "Invalid token. Please login again." {
		t.Errorf("message = %q", got)
	}
}

func TestRequireUser_VanishedSubject(t *testing.T) {
	ts, repo, _ := gateTestSetup(t)
	gate := RequireUser(ts, repo)(&okHandler{})

	// Valid token for a user the store no longer knows.
	token, _ := ts.GenerateUser("deleted-user")
	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeGateError(t, rec).Message; got != "User not found. Please login again." {
		t.Errorf("message = %q", got)
	}
}

func TestRequireUser_MissingSecretIs500(t *testing.T) {
	ts := NewTokenService("", time.Hour, "", "")
	repo := &fakeUserRepo{users: map[string]*model.User{}}
	gate := RequireUser(ts, repo)(&okHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set(TokenHeader, "a.b.c")
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeGateError(t, rec).Message; got != "Server configuration error" {
		t.Errorf("message = %q", got)
	}
}

// =========================================================================
// ADMIN GATE TESTS
// =========================================================================

func TestRequireAdmin_ValidProof(t *testing.T) {
	ts, _, _ := gateTestSetup(t)
	next := &okHandler{}
	gate := RequireAdmin(ts)(next)

	proof, _ := ts.GenerateAdminProof()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.Header.Set(TokenHeader, proof)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !next.ran {
		t.Fatal("downstream handler did not run")
	}
	// The admin principal carries no profile: nothing in the context.
	if next.user != nil {
		t.Errorf("admin gate attached a user to the context: %+v", next.user)
	}
}

func TestRequireAdmin_MissingToken(t *testing.T) {
	ts, _, _ := gateTestSetup(t)
	gate := RequireAdmin(ts)(&okHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeGateError(t, rec).Message; got != "Not Authorized. Admin login required." {
		t.Errorf("message = %q", got)
	}
}

func TestRequireAdmin_UserTokenRejected(t *testing.T) {
	ts, _, userID := gateTestSetup(t)
	next := &okHandler{}
	gate := RequireAdmin(ts)(next)

	// A perfectly valid USER token is not an admin proof.
	token, _ := ts.GenerateUser(userID)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if next.ran {
		t.Fatal("downstream handler ran behind the admin gate with a user token")
	}
	if got := decodeGateError(t, rec).Message; got != "Not Authorized. Admin access required." {
		t.Errorf("message = %q", got)
	}
}
