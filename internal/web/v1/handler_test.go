package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/userkit/user-service/internal/core/domain"
	logicv1 "github.com/userkit/user-service/internal/logic/v1"
)

// fakeService satisfies UserService; unset fields make an operation fail
// with the configured error.
type fakeService struct {
	user  *domain.User
	users []domain.User
	login *logicv1.LoginResult
	url   string
	err   error
}

func (f *fakeService) Signup(ctx context.Context, username, password, email string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeService) Login(ctx context.Context, username, password string) (*logicv1.LoginResult, error) {
	return f.login, f.err
}

func (f *fakeService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeService) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeService) UploadProfileImage(ctx context.Context, id, filename, contentType string, body io.Reader) (string, error) {
	return f.url, f.err
}

func newTestRouter(svc UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	h.RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestRegister_Created(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID(), Username: "alice", Email: "a@x.com", Password: "hashed"}
	r := newTestRouter(&fakeService{user: user})

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"password": "secret1",
		"email":    "a@x.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "success", body["status"])
	require.Equal(t, float64(http.StatusCreated), body["statusCode"])

	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice", u["username"])
	require.Equal(t, "a@x.com", u["email"])
	_, hasPassword := u["password"]
	require.False(t, hasPassword, "response must never carry the password")
}

func TestRegister_Duplicate(t *testing.T) {
	r := newTestRouter(&fakeService{err: fmt.Errorf("register: %w", logicv1.ErrUserExists)})

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"password": "secret1",
		"email":    "a@x.com",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "error", body["status"])
}

func TestRegister_InvalidBody(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newTestRouter(&fakeService{err: fmt.Errorf("authenticate: %w", logicv1.ErrInvalidCredentials)})

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "alice",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Incorrect password.", body["message"])
	_, hasToken := body["token"]
	require.False(t, hasToken)
}

func TestLogin_UnknownUser(t *testing.T) {
	r := newTestRouter(&fakeService{err: fmt.Errorf("authenticate: %w", logicv1.ErrUserNotFound)})

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "ghost",
		"password": "whatever",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "User does not exist.", body["message"])
}

func TestLogin_Success(t *testing.T) {
	r := newTestRouter(&fakeService{login: &logicv1.LoginResult{
		ID:       "abc123",
		Username: "alice",
		Token:    "signed-token",
	}})

	w, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "alice",
		"password": "secret1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "signed-token", body["token"])

	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "alice", u["username"])
	require.Equal(t, "abc123", u["id"])
}

func TestGetAllUsers_EmptyStore(t *testing.T) {
	r := newTestRouter(&fakeService{err: logicv1.ErrNoUsers})

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/users", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "error", body["status"])
	require.Equal(t, "No users found.", body["message"])
	_, hasStatusCode := body["statusCode"]
	require.False(t, hasStatusCode)
	_, hasData := body["data"]
	require.False(t, hasData)
}

func TestGetUser_NotFound(t *testing.T) {
	r := newTestRouter(&fakeService{err: fmt.Errorf("get: %w", logicv1.ErrUserNotFound)})

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/users/"+bson.NewObjectID().Hex(), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "User does not exist.", body["message"])
}

func TestDeleteUser_NotFound(t *testing.T) {
	r := newTestRouter(&fakeService{err: fmt.Errorf("delete: %w", logicv1.ErrUserNotFound)})

	w, body := doJSON(t, r, http.MethodDelete, "/api/v1/users/nonexistent-id", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "error", body["status"])
}

func TestDeleteUser_Success(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID(), Username: "alice"}
	r := newTestRouter(&fakeService{user: user})

	w, body := doJSON(t, r, http.MethodDelete, "/api/v1/users/"+user.ID.Hex(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "User deleted successfully", body["message"])
}

func TestUploadProfile_NoFile(t *testing.T) {
	r := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/abc/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadProfile_Success(t *testing.T) {
	r := newTestRouter(&fakeService{url: "https://assets.example.com/profiles/p.png"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profile", "p.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/abc/profile", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "https://assets.example.com/profiles/p.png", data["url"])
}
