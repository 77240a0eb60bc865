package deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.POST("/deposits", h.Open)
	rg.GET("/deposits", h.List)
	rg.POST("/deposits/:id/return", h.Return)
}

func (h *Handler) Open(c *gin.Context) {
	var req OpenDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	d, err := h.service.Open(c.Request.Context(), middleware.StoreID(c), middleware.Actor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) List(c *gin.Context) {
	onlyActive := c.Query("status") == "active"
	deposits, err := h.service.List(c.Request.Context(), middleware.StoreID(c), onlyActive)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, deposits)
}

func (h *Handler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}
	d, err := h.service.Return(c.Request.Context(), middleware.StoreID(c), middleware.Actor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Deposit not found")
	case errors.Is(err, ErrAlreadyOpen), errors.Is(err, ErrAlreadyClosed):
		response.Error(c, http.StatusConflict, "DEPOSIT_CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
