package discount

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
	discounts := rg.Group("/discounts")
	{
		discounts.GET("/validate", h.Validate)
		discounts.POST("", h.Create)
		discounts.GET("", h.List)
		discounts.GET("/:id", h.Get)
		discounts.PATCH("/:id", h.Update)
		discounts.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"discount": d})
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"discounts": out})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"discount": d})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"discount": d})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Validate(c *gin.Context) {
	var q ValidateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	out, err := h.service.Validate(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}
