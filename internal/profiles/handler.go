package profiles

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/util"
)

const (
	uploadField    = "pdf"
	maxUploadBytes = 10 << 20
)

type Handler struct {
	Svc         *Service
	RequireAuth bool
}

func NewHandler(svc *Service, requireAuth bool) *Handler {
	return &Handler{Svc: svc, RequireAuth: requireAuth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/profile", h.create)
	rg.GET("/profile/:userId", middleware.RequireOwner("userId", h.RequireAuth), h.list)
	rg.POST("/pdf-resume", middleware.RequireOwner("", h.RequireAuth), h.parse)
}

type createRequest struct {
	ProfileName    string  `json:"profile_name" binding:"required"`
	UserID         int64   `json:"user_id" binding:"required,gt=0"`
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Links          *string `json:"links"`
	Education      *string `json:"education"`
	Experience     *string `json:"experience"`
	Skills         *string `json:"skills"`
	Certifications *string `json:"certifications"`
	Projects       *string `json:"projects"`
	Languages      *string `json:"languages"`
	Hobbies        *string `json:"hobbies"`
	CreatedAt      string  `json:"created_at"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	if uid, ok := middleware.UserIDFromContext(c); ok && uid != req.UserID {
		respond.Error(c, http.StatusForbidden, "forbidden", "access to another user's data is not allowed", nil)
		return
	} else if !ok && h.RequireAuth {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	createdAt, err := util.ParseTimestamp(req.CreatedAt)
	if err != nil {
		respond.Invalid(c, respond.Field("created_at", "created_at: invalid datetime format", "value_error.datetime"))
		return
	}

	profile, err := h.Svc.Create(c.Request.Context(), Profile{
		UserID:         req.UserID,
		ProfileName:    req.ProfileName,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Links:          req.Links,
		Education:      req.Education,
		Experience:     req.Experience,
		Skills:         req.Skills,
		Certifications: req.Certifications,
		Projects:       req.Projects,
		Languages:      req.Languages,
		Hobbies:        req.Hobbies,
		CreatedAt:      createdAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Invalid(c, respond.Field("body", "profile_name, name and email must not be blank", "value_error"))
		default:
			respond.Error(c, http.StatusBadRequest, "profile_create_failed", "Profile creation failed", nil)
		}
		return
	}
	c.Set("profileId", profile.ID)
	respond.OK(c, "Profile created successfully", gin.H{
		"new_profile_id": profile.ID,
		"user":           profile,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return
	}
	profiles, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load profiles", nil)
		return
	}
	if len(profiles) == 0 {
		respond.Error(c, http.StatusNotFound, "not_found", "No profiles found", nil)
		return
	}
	respond.OK(c, "", gin.H{"profiles": profiles})
}

func (h *Handler) parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)
	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large", nil)
			return
		}
		respond.Invalid(c, respond.Field(uploadField, uploadField+": field required", "value_error.missing"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "unable to read upload", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "unable to read upload", nil)
		return
	}

	resume, err := h.Svc.ParseResume(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrEmpty):
			respond.Invalid(c, respond.Field(uploadField, "Empty PDF file", "value_error"))
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file_type", "Invalid file type. Only PDF files are accepted.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "parse_failed", "Failed to parse resume", nil)
		}
		return
	}
	respond.OK(c, "Resume parsed successfully", gin.H{"resume_data": resume})
}
