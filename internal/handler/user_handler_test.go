package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskify/internal/auth"
	"taskify/internal/handler"
	"taskify/internal/model"
	"taskify/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = "new-user-id"
	}
	return args.Error(0)
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func setupUserTest() (*gin.Engine, *MockAccountStore, *auth.PasswordHasher) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockAccountStore)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	userHandler := handler.NewUserHandler(mockRepo, hasher)

	r.POST("/api/signup", userHandler.Signup)
	r.POST("/api/login", userHandler.Login)
	return r, mockRepo, hasher
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}

func TestSignup_Success(t *testing.T) {
	router, mockRepo, hasher := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "test@example.com" &&
			u.Name == "Test User" &&
			u.HashedPassword != "password123" &&
			hasher.Verify("password123", u.HashedPassword)
	})).Return(nil)

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.SignupResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "User created successfully", body.Message)
	assert.Equal(t, "new-user-id", body.UserID)
	assert.NotContains(t, resp.Body.String(), "password")

	mockRepo.AssertExpectations(t)
}

func TestSignup_MissingFields(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	for name, body := range map[string]any{
		"no password": map[string]string{"name": "A", "email": "a@example.com"},
		"empty name":  map[string]string{"name": "", "email": "a@example.com", "password": "x"},
		"no body":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, router, "/api/signup", body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, "All fields are required", decodeError(t, resp))
		})
	}

	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	existing := &model.User{ID: "u1", Email: "existing@example.com", Name: "Existing", HashedPassword: "digest"}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existing, nil)

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name:     "Someone Else",
		Email:    "existing@example.com",
		Password: "different",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Email already exists", decodeError(t, resp))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_DuplicateEmailRace(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name: "Racer", Email: "race@example.com", Password: "pw",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Email already exists", decodeError(t, resp))
}

func TestSignup_StoreFailure(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "x@example.com").Return(nil, assert.AnError)

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name: "X", Email: "x@example.com", Password: "pw",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Internal server error", decodeError(t, resp))
	assert.NotContains(t, resp.Body.String(), assert.AnError.Error())
}

func TestSignup_PasswordTooLong(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name: "Long", Email: "long@example.com", Password: strings.Repeat("p", 73),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Password must be at most 72 bytes", decodeError(t, resp))
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_PasswordAtLimit(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "edge@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp := postJSON(t, router, "/api/signup", handler.SignupRequest{
		Name: "Edge", Email: "edge@example.com", Password: strings.Repeat("p", 72),
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo, hasher := setupUserTest()

	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	testUser := &model.User{
		ID:             "user-42",
		Email:          "test@example.com",
		HashedPassword: digest,
		Name:           "Test User",
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	resp := postJSON(t, router, "/api/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.LoginResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "user-42", body.User.UserID)
	assert.Equal(t, "Test User", body.User.Name)
	assert.Equal(t, "test@example.com", body.User.Email)
	assert.NotContains(t, resp.Body.String(), digest)

	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	router, mockRepo, hasher := setupUserTest()

	digest, err := hasher.Hash("correct_password")
	require.NoError(t, err)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").
		Return(&model.User{ID: "u", Email: "test@example.com", HashedPassword: digest}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	wrongPassword := postJSON(t, router, "/api/login", handler.LoginRequest{
		Email: "test@example.com", Password: "wrong_password",
	})
	unknownEmail := postJSON(t, router, "/api/login", handler.LoginRequest{
		Email: "nobody@example.com", Password: "wrong_password",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid email or password", decodeError(t, unknownEmail))

	mockRepo.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	router, _, _ := setupUserTest()

	resp := postJSON(t, router, "/api/login", map[string]string{"email": "a@example.com"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Email and password are required", decodeError(t, resp))
}

func TestLogin_StoreFailure(t *testing.T) {
	router, mockRepo, _ := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, assert.AnError)

	resp := postJSON(t, router, "/api/login", handler.LoginRequest{Email: "a@example.com", Password: "pw"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
