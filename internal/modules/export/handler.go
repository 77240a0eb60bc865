package export

import (
	"errors"
	"fmt"
	"net/http"

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
	rg.GET("/export/bookings.csv", h.DayReport)
}

func (h *Handler) DayReport(c *gin.Context) {
	date := c.Query("date")

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%s.csv", date))

	err := h.service.WriteDayCSV(c.Request.Context(), c.Writer, middleware.StoreID(c), date)
	if err != nil {
		if errors.Is(err, ErrBadDate) {
			c.Header("Content-Type", "application/json")
			c.Header("Content-Disposition", "")
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
