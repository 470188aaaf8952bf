package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"studiobooking/internal/pkg/response"
)

const maxWebhookBody = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/:id/payment-link", h.CreatePaymentLink)
		bookings.GET("/:id/payment-status", h.GetPaymentStatus)
		bookings.POST("/:id/refund", h.Refund)
	}
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) CreatePaymentLink(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.service.CreatePaymentLink(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, out)
}

func (h *Handler) GetPaymentStatus(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.service.GetPaymentStatus(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Refund(c *gin.Context) {
	id, ok := response.PathUUID(c, "id")
	if !ok {
		return
	}
	var req RefundRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BindError(c, err)
			return
		}
	}

	out, err := h.service.Refund(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// Webhook receives MamoPay callbacks. The raw body is kept for the audit record.
func (h *Handler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_WEBHOOK_PAYLOAD", "failed to read body")
		return
	}

	out, err := h.service.HandleWebhook(c.Request.Context(), raw)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}
