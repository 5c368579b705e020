package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/userkit/user-service/internal/core/domain"
	logicv1 "github.com/userkit/user-service/internal/logic/v1"
	"github.com/userkit/user-service/middleware"
)

// UserService is the slice of the logic layer the handlers consume.
// Implemented by *logicv1.UserService; narrowed to an interface so handler
// tests can substitute a fake.
type UserService interface {
	Signup(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*logicv1.LoginResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	UploadProfileImage(ctx context.Context, id, filename, contentType string, body io.Reader) (string, error)
}

// Handler groups HTTP handlers for the user API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	users UserService
}

// NewHandler creates a new Handler with the given UserService.
func NewHandler(users UserService) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes registers all user API v1 routes on the given router group.
// The users subtree sits behind the bearer-token gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authGate gin.HandlerFunc) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)

	users := rg.Group("/users", authGate)
	users.GET("", h.GetAllUsers)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)
	users.POST("/:id/profile", h.UploadProfile)
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Profile  *string `json:"profile"`
}

// respondError writes the error envelope used by every failure branch.
func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":     "error",
		"error":      true,
		"statusCode": statusCode,
		"message":    message,
	})
}

// Register handles HTTP request for user signup.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Invalid request")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Signup(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Str("username", req.Username).Msg("Signup failed")

		switch {
		case errors.Is(err, logicv1.ErrUserExists):
			respondError(c, http.StatusConflict, "User already exists.")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	logger.Info().Str("user_id", user.ID.Hex()).Msg("Signup successful")
	c.JSON(http.StatusCreated, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusCreated,
		"user": gin.H{
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login handles HTTP request for user login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Invalid request")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Login failed")

		// Unknown user and wrong password map to distinct statuses, which
		// leaks username existence. Matches the upstream contract.
		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User does not exist.")
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Incorrect password.")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	logger.Info().Str("user_id", result.ID).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"user": gin.H{
			"username": result.Username,
			"id":       result.ID,
		},
		"token": result.Token,
	})
}

// GetAllUsers handles HTTP request to list every user.
func (h *Handler) GetAllUsers(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	users, err := h.users.GetAllUsers(ctx)
	if err != nil {
		// Empty store is a soft error: ordinary body, no transport failure.
		if errors.Is(err, logicv1.ErrNoUsers) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "error",
				"message": "No users found.",
			})
			return
		}

		span.RecordError(err)
		logger.Error().Err(err).Msg("List users failed")
		respondError(c, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"message":    "Users retrieved successfully",
		"data":       users,
	})
}

// GetUser handles HTTP request to fetch one user by id.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	user, err := h.users.GetUser(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Get user failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User does not exist.")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"message":    "User retrieved successfully",
		"data":       user,
	})
}

// UpdateUser handles HTTP request to partially update a user.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Invalid request")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := domain.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.Profile,
	}

	user, err := h.users.UpdateUser(ctx, c.Param("id"), update)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Update user failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "No user found.")
		case errors.Is(err, logicv1.ErrUpdateFailed):
			respondError(c, http.StatusBadRequest, "Failed to update user.")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	logger.Info().Str("user_id", user.ID.Hex()).Msg("User updated")
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"message":    "User updated successfully",
		"data":       user,
	})
}

// DeleteUser handles HTTP request to delete a user by id.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	if _, err := h.users.DeleteUser(ctx, c.Param("id")); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Delete user failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User does not exist.")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"message":    "User deleted successfully",
	})
}

// UploadProfile handles multipart upload of a profile image. The file part
// streams straight to the asset store; only the returned URL is persisted.
func (h *Handler) UploadProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	header, err := c.FormFile("profile")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, err := header.Open()
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Open uploaded file failed")
		respondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := h.users.UploadProfileImage(ctx, c.Param("id"), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Profile upload failed")

		switch {
		case errors.Is(err, logicv1.ErrMissingFile):
			respondError(c, http.StatusBadRequest, "No file uploaded")
		case errors.Is(err, logicv1.ErrUpdateFailed):
			respondError(c, http.StatusBadRequest, "Failed to update user profile")
		default:
			respondError(c, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	logger.Info().Str("url", url).Msg("Profile image uploaded")
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"error":      false,
		"statusCode": http.StatusOK,
		"message":    "Profile image uploaded successfully",
		"data":       gin.H{"url": url},
	})
}
