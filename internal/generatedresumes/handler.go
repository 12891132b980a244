package generatedresumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

// Handler wires HTTP handlers to the generated resume service.
type Handler struct {
	Svc         *Service
	RequireAuth bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, requireAuth bool) *Handler {
	return &Handler{Svc: svc, RequireAuth: requireAuth}
}

// RegisterRoutes attaches generated resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	owned := rg.Group("/profile/:userId/new_resume", middleware.RequireOwner("userId", h.RequireAuth))
	owned.POST("", h.generate)
	owned.GET("", h.list)
	owned.GET("/:resumeId", h.get)
	owned.GET("/:resumeId/pdf", h.pdf)
}

type generateRequest struct {
	UserID         int64  `json:"user_id" binding:"required,gt=0"`
	UserResumeID   int64  `json:"user_resume_id" binding:"required,gt=0"`
	Name           string `json:"name" binding:"required"`
	JobTitle       string `json:"job_title" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
	CreatedAt      string `json:"created_at"`
}

func (h *Handler) generate(c *gin.Context) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	if req.UserID != userID {
		respond.Invalid(c, respond.Field("user_id", "user_id: must match the user in the path", "value_error"))
		return
	}
	createdAt, err := util.ParseTimestamp(req.CreatedAt)
	if err != nil {
		respond.Invalid(c, respond.Field("created_at", "created_at: invalid datetime format", "value_error.datetime"))
		return
	}
	c.Set("profileId", req.UserResumeID)

	resume, err := h.Svc.Generate(c.Request.Context(), GenerateInput{
		UserID:         userID,
		ProfileID:      req.UserResumeID,
		Name:           req.Name,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		CreatedAt:      createdAt,
		RequestID:      middleware.RequestIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Invalid(c, respond.Field("body", "name, job_title and job_description must not be blank", "value_error"))
		case errors.Is(err, ErrUserNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
		case errors.Is(err, ErrProfileNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Profile not found", nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusInternalServerError, "generation_failed", "Failed to generate resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Resume creation failed", nil)
		}
		return
	}
	c.Set("resumeId", resume.ID)
	respond.OK(c, "Resume created successfully", gin.H{
		"resume_id": resume.ID,
		"id":        resume.ID,
		"message":   "Resume created successfully",
	})
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return
	}
	resumes, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load resumes", nil)
		return
	}
	if len(resumes) == 0 {
		respond.Error(c, http.StatusNotFound, "not_found", "No resumes found", nil)
		return
	}
	respond.OK(c, "", gin.H{"resumes": resumes})
}

func (h *Handler) get(c *gin.Context) {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return
	}
	resume, err := h.Svc.GetOwned(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	respond.OK(c, "", gin.H{"resume": resume})
}

func (h *Handler) pdf(c *gin.Context) {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return
	}
	pdf, err := h.Svc.PDF(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyContent):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume content not available", nil)
		case errors.Is(err, ErrRenderFailed):
			telemetry.Error("resume.pdf.failed", map[string]any{"user_id": userID, "resume_id": resumeID, "error": err})
			respond.Error(c, http.StatusInternalServerError, "render_failed", "PDF generation failed", nil)
		default:
			h.writeLookupError(c, err)
		}
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+PDFFileName(userID, resumeID))
	c.Header("Content-Length", strconv.Itoa(len(pdf)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) ids(c *gin.Context) (int64, int64, bool) {
	userID, ok := respond.PathID(c, "userId")
	if !ok {
		return 0, 0, false
	}
	resumeID, ok := respond.PathID(c, "resumeId")
	if !ok {
		return 0, 0, false
	}
	c.Set("resumeId", resumeID)
	return userID, resumeID, true
}

func (h *Handler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to load resume", nil)
}

