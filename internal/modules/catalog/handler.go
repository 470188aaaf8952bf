package catalog

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
	studios := rg.Group("/studios")
	{
		studios.POST("", h.CreateStudio)
		studios.GET("", h.ListStudios)
		studios.GET("/:id", h.GetStudio)
		studios.PATCH("/:id", h.UpdateStudio)
		studios.GET("/:id/packages", h.ListStudioPackages)
	}

	packages := rg.Group("/packages")
	{
		packages.POST("", h.CreatePackage)
		packages.GET("", h.ListPackages)
		packages.GET("/:id", h.GetPackage)
	}

	services := rg.Group("/additional-services")
	{
		services.POST("", h.CreateService)
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
		services.PATCH("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}

/* ---------- STUDIO ---------- */

func (h *Handler) CreateStudio(c *gin.Context) {
	var req CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	studio, err := h.service.CreateStudio(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"studio": studio})
}

func (h *Handler) ListStudios(c *gin.Context) {
	studios, err := h.service.ListStudios(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"studios": studios})
}

func (h *Handler) GetStudio(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	studio, err := h.service.GetStudio(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"studio": studio})
}

func (h *Handler) UpdateStudio(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	studio, err := h.service.UpdateStudio(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"studio": studio})
}

func (h *Handler) ListStudioPackages(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	pkgs, err := h.service.ListStudioPackages(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"packages": pkgs})
}

/* ---------- PACKAGE ---------- */

func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"package": p})
}

func (h *Handler) ListPackages(c *gin.Context) {
	pkgs, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"packages": pkgs})
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"package": p})
}

/* ---------- ADDITIONAL SERVICE ---------- */

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"additional_service": svc})
}

func (h *Handler) ListServices(c *gin.Context) {
	var q ListServicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	services, err := h.service.ListServices(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"additional_services": services})
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"additional_service": svc})
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"additional_service": svc})
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.DeleteService(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}
