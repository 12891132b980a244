package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/patch"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

type Handler struct {
	Svc         *Service
	RequireAuth bool
}

func NewHandler(svc *Service, requireAuth bool) *Handler {
	return &Handler{Svc: svc, RequireAuth: requireAuth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", h.login)

	owned := rg.Group("/user/:userId", middleware.RequireOwner("userId", h.RequireAuth))
	owned.GET("", h.get)
	owned.PATCH("", h.updateSettings)
}

type signupRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	Phone     *string `json:"phone"`
	CreatedAt string  `json:"created_at"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type settingsRequest struct {
	Password patch.Field[string] `json:"password,omitzero"`
	Phone    patch.Field[string] `json:"phone,omitzero"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	createdAt, err := util.ParseTimestamp(req.CreatedAt)
	if err != nil {
		respond.Invalid(c, respond.Field("created_at", "created_at: invalid datetime format", "value_error.datetime"))
		return
	}

	user, err := h.Svc.Signup(c.Request.Context(), SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		CreatedAt: createdAt,
	})
	if err != nil {
		h.writeError(c, err, "Signup failed")
		return
	}
	h.writeSession(c, user, "User created successfully")
	telemetry.Info("user.signup", map[string]any{"user_id": user.ID})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err, "Login failed")
		return
	}
	h.writeSession(c, user, "Login successful")
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "Failed to load user")
		return
	}
	respond.OK(c, "", gin.H{"user": user})
}

func (h *Handler) updateSettings(c *gin.Context) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	user, err := h.Svc.UpdateSettings(c.Request.Context(), userID, SettingsPatch{
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.writeError(c, err, "Failed to update settings")
		return
	}
	respond.OK(c, "Settings updated successfully", gin.H{"user": user})
}

func (h *Handler) writeSession(c *gin.Context, user User, message string) {
	session, err := IssueSession(user)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to issue access token", nil)
		return
	}
	respond.OK(c, message, session)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Invalid(c, respond.Field(verr.Field, verr.Error(), "value_error"))
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusBadRequest, "conflict", "User already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
