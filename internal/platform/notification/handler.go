package notification

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the outbox over HTTP for ad-hoc sends and delivery
// inspection.
type Handler struct {
	outbox *Outbox
}

func NewHandler(outbox *Outbox) *Handler {
	return &Handler{outbox: outbox}
}

// RegisterRoutes registers the notification routes on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/notifications/send", h.Send)
	g.POST("/notifications/send-template", h.SendTemplate)
	g.GET("/notifications/stats", h.Stats)
	g.GET("/notifications/:id", h.Get)
	g.GET("/notifications", h.List)
	g.POST("/notifications/:id/retry", h.Retry)
}

type sendRequest struct {
	Channel   Channel `json:"channel"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
}

// Send handles POST /notifications/send. A failed delivery still returns the
// message so the caller has its ID and error for a later retry.
func (h *Handler) Send(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	m := &Message{
		Channel:   req.Channel,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	_ = h.outbox.Send(c.Request().Context(), m)
	return c.JSON(http.StatusCreated, m)
}

type sendTemplateRequest struct {
	TemplateID string            `json:"template_id"`
	Recipient  string            `json:"recipient"`
	Data       map[string]string `json:"data"`
}

// SendTemplate handles POST /notifications/send-template.
func (h *Handler) SendTemplate(c echo.Context) error {
	var req sendTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	m, err := h.outbox.SendTemplate(c.Request().Context(), req.TemplateID, req.Data, req.Recipient)
	if err != nil && m == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, m)
}

// Get handles GET /notifications/:id.
func (h *Handler) Get(c echo.Context) error {
	m, err := h.outbox.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, m)
}

// List handles GET /notifications?recipient=...
func (h *Handler) List(c echo.Context) error {
	recipient := c.QueryParam("recipient")
	if recipient == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "recipient query parameter is required"})
	}
	return c.JSON(http.StatusOK, h.outbox.ListByRecipient(c.Request().Context(), recipient, 100))
}

// Retry handles POST /notifications/:id/retry.
func (h *Handler) Retry(c echo.Context) error {
	id := c.Param("id")
	if err := h.outbox.Retry(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	m, _ := h.outbox.Get(c.Request().Context(), id)
	return c.JSON(http.StatusOK, m)
}

// Stats handles GET /notifications/stats.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.outbox.Stats(c.Request().Context()))
}
