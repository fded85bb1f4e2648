package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/shopify"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/dto"
)

// maxWebhookBody caps webhook payload size (2MB).
const maxWebhookBody = 2 * 1024 * 1024

// OrderWriter is the order mutation surface webhooks need. Satisfied by
// store.OrdersRepository.
type OrderWriter interface {
	Put(ctx context.Context, order *commerce.Order) error
	Delete(ctx context.Context, id string) error
}

// WebhooksHandler receives Shopify order webhooks.
type WebhooksHandler struct {
	secret string
	orders OrderWriter
	log    *zap.Logger
	now    func() time.Time
}

// NewWebhooksHandler creates the handler.
func NewWebhooksHandler(secret string, orders OrderWriter, log *zap.Logger) *WebhooksHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhooksHandler{secret: secret, orders: orders, log: log, now: time.Now}
}

// RegisterRoutes mounts the /webhooks routes.
func (h *WebhooksHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Group("/webhooks").POST("/shopify", h.Shopify)
}

// Shopify verifies and applies one webhook event. Order create/update
// topics overwrite by id; the delete topic removes the record.
func (h *WebhooksHandler) Shopify(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("unreadable body", err.Error()))
		return
	}

	signature := c.GetHeader("X-Shopify-Hmac-Sha256")
	if !shopify.VerifyWebhook(h.secret, body, signature) {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid signature", "webhook signature verification failed"))
		return
	}

	topic := c.GetHeader("X-Shopify-Topic")
	switch topic {
	case "orders/create", "orders/updated", "orders/paid":
		h.upsertOrder(c, body, topic)
	case "orders/deleted":
		h.deleteOrder(c, body)
	default:
		// Unknown topics are acknowledged so Shopify stops retrying.
		h.log.Info("ignoring webhook topic", zap.String("topic", topic))
		c.JSON(http.StatusOK, dto.NewMessageResponse(nil, "ignored"))
	}
}

func (h *WebhooksHandler) upsertOrder(c *gin.Context, body []byte, topic string) {
	var payload shopify.WebhookOrder
	if err := unmarshalJSON(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid payload", err.Error()))
		return
	}
	order := payload.ToOrder(h.now())
	if order.ID == "0" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid payload", "order id missing"))
		return
	}
	if err := h.orders.Put(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}
	h.log.Info("webhook order stored", zap.String("topic", topic), zap.String("id", order.ID))
	c.JSON(http.StatusOK, dto.NewMessageResponse(gin.H{"id": order.ID}, "stored"))
}

func (h *WebhooksHandler) deleteOrder(c *gin.Context, body []byte) {
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := unmarshalJSON(body, &payload); err != nil || payload.ID == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid payload", "order id missing"))
		return
	}
	id := formatID(payload.ID)
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.log.Info("webhook order deleted", zap.String("id", id))
	c.JSON(http.StatusOK, dto.NewMessageResponse(gin.H{"id": id}, "deleted"))
}
