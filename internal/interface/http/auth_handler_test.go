package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alterlapsus/auth-api/config"
	"github.com/alterlapsus/auth-api/internal/application"
	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/internal/domain/repository"
	"github.com/alterlapsus/auth-api/internal/interface/middleware"
	"github.com/alterlapsus/auth-api/pkg/helpers"
	"github.com/alterlapsus/auth-api/pkg/validation"
)

type memUserRepo struct {
	byUsername map[string]*entity.User
	byEmail    map[string]*entity.User
	nextID     int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byUsername: make(map[string]*entity.User),
		byEmail:    make(map[string]*entity.User),
	}
}

func (r *memUserRepo) FindDuplicate(_ context.Context, username, email string) error {
	if _, ok := r.byUsername[username]; ok {
		return repository.ErrDuplicateUsername
	}
	if _, ok := r.byEmail[email]; ok {
		return repository.ErrDuplicateEmail
	}
	return nil
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User, roleIDs []int64) error {
	if _, ok := r.byUsername[u.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	r.nextID++
	u.ID = r.nextID
	for _, id := range roleIDs {
		for _, role := range entity.CanonicalRoles {
			if role.ID == id {
				u.Roles = append(u.Roles, role)
			}
		}
	}
	clone := *u
	r.byUsername[u.Username] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

type memRoleRepo struct{}

func (memRoleRepo) GetByNames(_ context.Context, names []string) ([]entity.Role, error) {
	var out []entity.Role
	for _, n := range names {
		for _, role := range entity.CanonicalRoles {
			if role.Name == n {
				out = append(out, role)
			}
		}
	}
	return out, nil
}

func (memRoleRepo) Count(context.Context) (int64, error) { return 3, nil }

func (memRoleRepo) InsertAll(context.Context, []entity.Role) error { return nil }

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{AppName: "auth-api", Env: "test"}
	}
	users := newMemUserRepo()
	svc := application.NewService(users, memRoleRepo{}, helpers.NewLogger("test", "test"))
	h := NewAuthHandler(svc, validation.New(), helpers.NewLogger("test", "test"), cfg)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/signin", h.Signin)
	return r, users
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:1234"
	r.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []validation.FieldError {
	t.Helper()
	var body struct {
		Errors []validation.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Errors
}

func TestSignup_Success(t *testing.T) {
	r, users := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Message string `json:"message"`
		User    struct {
			ID       int64    `json:"id"`
			Username string   `json:"username"`
			Email    string   `json:"email"`
			Roles    []string `json:"roles"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.User.Username)
	assert.Equal(t, []string{"USER"}, body.User.Roles, "missing roles field defaults to USER")
	assert.NotZero(t, body.User.ID)

	// the response must never echo the password or its hash
	assert.NotContains(t, w.Body.String(), "Passw0rd")
	assert.NotContains(t, w.Body.String(), "password")

	stored, err := users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", stored.Password)
}

func TestSignup_ValidationCollectsAllViolations(t *testing.T) {
	r, users := newTestRouter(t, nil)

	payload := gin.H{"username": "x!", "email": "nope", "password": "short"}
	w := postJSON(r, "/api/auth/signup", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	errs := decodeErrors(t, w)
	gotFields := make([]string, 0, len(errs))
	for _, e := range errs {
		gotFields = append(gotFields, e.Field)
	}
	assert.Equal(t, []string{"username", "email", "password"}, gotFields)
	assert.Empty(t, users.byUsername, "no user may be created on validation failure")

	// identical invalid payload yields identical violations
	w2 := postJSON(r, "/api/auth/signup", payload)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
	assert.JSONEq(t, w.Body.String(), w2.Body.String())
}

func TestSignup_TrimsAndNormalizes(t *testing.T) {
	r, users := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "  bob  ",
		"email":    "  Bob+news@Example.COM ",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := users.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", stored.Email)
}

func TestSignup_DuplicateUsernameAndEmail(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "carol", "email": "carol@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/auth/signup", gin.H{
		"username": "carol", "email": "fresh@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Field)

	w = postJSON(r, "/api/auth/signup", gin.H{
		"username": "carol2", "email": "carol@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs = decodeErrors(t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestSignup_UnknownRole(t *testing.T) {
	r, users := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "Passw0rd",
		"roles":    []string{"SUPERUSER"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, "roles", errs[0].Field)
	assert.Empty(t, users.byUsername, "no user or partial role association may exist")
}

func TestSignup_ExplicitRoles(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "erin",
		"email":    "erin@example.com",
		"password": "Passw0rd",
		"roles":    []string{"MODERATOR", "ADMIN"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		User struct {
			Roles []string `json:"roles"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"MODERATOR", "ADMIN"}, body.User.Roles)
}

func TestSignup_HashFailureIsInternal(t *testing.T) {
	// bcrypt rejects passwords longer than 72 bytes; that must surface as
	// 500, with detail suppressed in production mode.
	long := "Aa1" + string(bytes.Repeat([]byte("x"), 80))

	r, users := newTestRouter(t, &config.Config{AppName: "auth-api", Env: "production"})
	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "frank", "email": "frank@example.com", "password": long,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), "bcrypt")
	assert.Empty(t, users.byUsername, "no user row after a hashing failure")
}

func TestSignin_RoundTrip(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "grace", "email": "grace@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/auth/signin", gin.H{"username": "grace", "password": "Passw0rd"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		User struct {
			Username string   `json:"username"`
			Roles    []string `json:"roles"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "grace", body.User.Username)
	assert.Equal(t, []string{"USER"}, body.User.Roles)

	w = postJSON(r, "/api/auth/signin", gin.H{"username": "grace", "password": "Passw0rd!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignin_GenericFailureHidesExistence(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{
		"username": "henry", "email": "henry@example.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	wrongPwd := postJSON(r, "/api/auth/signin", gin.H{"username": "henry", "password": "nope"})
	unknownUser := postJSON(r, "/api/auth/signin", gin.H{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPwd.Body.String(), unknownUser.Body.String(),
		"responses must not reveal whether the username exists")
}

func TestSignin_MissingFields(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/auth/signin", gin.H{"username": "   ", "password": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	require.Len(t, errs, 2)
	fields := []string{errs[0].Field, errs[1].Field}
	assert.Equal(t, []string{"username", "password"}, fields)
}

func TestSignin_LoginBudgetConsumedBeforeValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{AppName: "auth-api", Env: "test"}
	users := newMemUserRepo()
	svc := application.NewService(users, memRoleRepo{}, helpers.NewLogger("test", "test"))
	h := NewAuthHandler(svc, validation.New(), helpers.NewLogger("test", "test"), cfg)

	r := gin.New()
	r.Use(middleware.RealIP())
	login := middleware.RateLimit(rdb, 5, 15*time.Minute, middleware.KeyByIPAndPath(), nil)
	r.POST("/api/auth/signin", login, h.Signin)

	// five malformed attempts consume the whole budget
	for i := 0; i < 5; i++ {
		w := postJSON(r, "/api/auth/signin", gin.H{"username": "", "password": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code, "attempt %d", i+1)
	}

	// the sixth is throttled regardless of payload correctness
	w := postJSON(r, "/api/auth/signin", gin.H{"username": "user", "password": "123456"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
