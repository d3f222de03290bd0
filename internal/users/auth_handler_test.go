package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scancerlabs/scancer-platform/internal/auth"
	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

func newAuthHandler(t *testing.T) (*AuthHandler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewAuthHandler(NewRepository(mock), issuer, logging.New("error", "text")), mock
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("kim@example.com", pgxmock.AnyArg(), "김철수", "", "").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "email", "hashed_password", "name", "phone", "birth", "created_at"},
		).AddRow(int64(1), "kim@example.com", "hash", "김철수", "", "", time.Now()))

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{
		Email: "Kim@Example.com", Password: "s3cretpass", Name: "김철수",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var u User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, int64(1), u.ID)
	assert.Empty(t, u.PasswordHash, "hash must not serialize")
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newAuthHandler(t)

	tests := []registerRequest{
		{Email: "", Password: "s3cretpass", Name: "김철수"},
		{Email: "not-an-email", Password: "s3cretpass", Name: "김철수"},
		{Email: "kim@example.com", Password: "short", Name: "김철수"},
		{Email: "kim@example.com", Password: "s3cretpass", Name: "  "},
	}
	for _, req := range tests {
		rec := postJSON(t, h.Register, "/api/auth/register", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "request %+v", req)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("kim@example.com", pgxmock.AnyArg(), "김철수", "", "").
		WillReturnError(pgx.ErrNoRows)

	rec := postJSON(t, h.Register, "/api/auth/register", registerRequest{
		Email: "kim@example.com", Password: "s3cretpass", Name: "김철수",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, hashed_password").
		WithArgs("kim@example.com").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "email", "hashed_password", "name", "phone", "birth", "created_at"},
		).AddRow(int64(5), "kim@example.com", string(hash), "김철수", "", "", time.Now()))

	rec := postJSON(t, h.Login, "/api/auth/login", loginRequest{
		Email: "kim@example.com", Password: "s3cretpass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(5), resp.User.ID)

	// The issued token round-trips through the parser with the right claims.
	claims, err := auth.NewIssuer("test-secret", time.Hour).Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
}

func TestLoginBadPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, hashed_password").
		WithArgs("kim@example.com").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "email", "hashed_password", "name", "phone", "birth", "created_at"},
		).AddRow(int64(5), "kim@example.com", string(hash), "김철수", "", "", time.Now()))

	rec := postJSON(t, h.Login, "/api/auth/login", loginRequest{
		Email: "kim@example.com", Password: "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT id, email, hashed_password").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	rec := postJSON(t, h.Login, "/api/auth/login", loginRequest{
		Email: "ghost@example.com", Password: "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRequiresAuthContext(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req.WithContext(context.Background()))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
