package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studiobooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios/:id/availability", h.GetAvailability)
}

// GetAvailability handles GET /studios/:id/availability?view=month|day&date=
func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	out, err := h.service.Get(c.Request.Context(), id, q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}
