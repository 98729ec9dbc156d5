package handler

import (
	"errors"
	"net/http"

	"taskify/internal/auth"
	"taskify/internal/model"
	"taskify/internal/repository"

	"github.com/gin-gonic/gin"
)

// PasswordHasher is the hashing capability the account handlers need.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	VerifyMissing(password string) bool
}

type UserHandler struct {
	repo   repository.AccountStore
	hasher PasswordHasher
}

func NewUserHandler(repo repository.AccountStore, hasher PasswordHasher) *UserHandler {
	useJSONFieldNames()
	return &UserHandler{repo: repo, hasher: hasher}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type UserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

const (
	msgAllFieldsRequired   = "All fields are required"
	msgEmailExists         = "Email already exists"
	msgCredentialsRequired = "Email and password are required"
	msgInvalidCredentials  = "Invalid email or password"
	msgPasswordTooLong     = "Password must be at most 72 bytes"
)

// Signup godoc
// @Summary      Register a new account
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      SignupRequest  true  "Account details"
// @Success      200   {object}  SignupResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMissingInput(err) {
			respondError(c, http.StatusBadRequest, msgAllFieldsRequired)
			return
		}
		respondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	if len(req.Password) > auth.MaxPasswordLength {
		respondError(c, http.StatusBadRequest, msgPasswordTooLong)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		respondStoreFailure(c, "find_user_by_email", err)
		return
	}
	if existing != nil {
		respondError(c, http.StatusBadRequest, msgEmailExists)
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		respondError(c, http.StatusBadRequest, msgPasswordTooLong)
		return
	}
	if err != nil {
		respondStoreFailure(c, "hash_password", err)
		return
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: digest,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, msgEmailExists)
			return
		}
		respondStoreFailure(c, "create_user", err)
		return
	}

	c.JSON(http.StatusOK, SignupResponse{
		Success: true,
		Message: "User created successfully",
		UserID:  user.ID,
	})
}

// Login godoc
// @Summary      Check credentials and return the account
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isMissingInput(err) {
			respondError(c, http.StatusBadRequest, msgCredentialsRequired)
			return
		}
		respondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondStoreFailure(c, "find_user_by_email", err)
		return
	}

	var ok bool
	if user == nil {
		ok = h.hasher.VerifyMissing(req.Password)
	} else {
		ok = h.hasher.Verify(req.Password, user.HashedPassword)
	}
	if !ok {
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		User: UserResponse{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		},
	})
}
