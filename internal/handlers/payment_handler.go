package handlers

import (
	"errors"
	"log"

	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for gateway checkout and payment
// confirmation.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/checkout", h.HandleBeginCheckout)
	paymentRoutes.Post("/confirm", h.HandleConfirmPayment)
}

// HandleBeginCheckout opens a gateway session for an order and returns the
// redirect URL.
func (h *PaymentHandler) HandleBeginCheckout(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "orderId is required to begin checkout.",
		})
	}

	url, err := h.service.BeginCheckout(c.Context(), req.OrderID)
	if err != nil {
		log.Printf("Error beginning checkout for order %s: %v", req.OrderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) || errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Checkout failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not begin checkout",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"url": url,
	})
}

// HandleConfirmPayment finalizes an order from a completed checkout session.
// Replays of an already-recorded transaction return a no-op response.
func (h *PaymentHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing confirm request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "sessionId is required to confirm payment.",
		})
	}

	result, err := h.service.ConfirmPayment(c.Context(), req.SessionID)
	if err != nil {
		log.Printf("Error confirming payment for session %s: %v", req.SessionID, err)
		switch {
		case errors.Is(err, services.ErrPaymentIncomplete):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "Payment has not completed.",
				"error":   err.Error(),
			})
		case errors.Is(err, repositories.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Confirmation failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not confirm payment",
			"error":   err.Error(),
		})
	}

	if result.Replayed {
		return c.JSON(fiber.Map{
			"message": "Payment already recorded",
			"result":  result,
		})
	}
	return c.JSON(result)
}
