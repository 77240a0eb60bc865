package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomdesk/internal/domain"
	"roomdesk/internal/middleware"
	"roomdesk/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
	rg.GET("/files/*path", h.Serve)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file field is required")
		return
	}
	kind := domain.UploadKind(c.PostForm("kind"))

	staffID := c.GetInt64("staff_id")
	u, url, err := h.service.Save(c.Request.Context(), middleware.StoreID(c), staffID, kind, fileHeader)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"upload": u,
		"url":    url,
	})
}

func (h *Handler) Serve(c *gin.Context) {
	relPath := c.Param("path")
	if len(relPath) > 0 && relPath[0] == '/' {
		relPath = relPath[1:]
	}

	absPath, err := h.service.Resolve(c.Request.Context(), middleware.StoreID(c), relPath, c.Query("expires"), c.Query("sig"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.File(absPath)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrInvalidMimeType), errors.Is(err, ErrInvalidKind):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrBadSignature):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Signature invalid or expired")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
