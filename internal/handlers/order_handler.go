package handlers

import (
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and their tracking timelines.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/approve", h.HandleApproveOrder)
	orderRoutes.Patch("/:id/reject", h.HandleRejectOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
	orderRoutes.Post("/:id/tracking", h.HandleAppendTracking)
	orderRoutes.Get("/:id/tracking", h.HandleGetTracking)
}

// HandlePlaceOrder stores a new order and reports whether the buyer still has
// to go through gateway checkout.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	// Buyer and product references are required; quantity and price are
	// stored as sent.
	if order.BuyerEmail == "" || order.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "buyerEmail and productId are required for an order.",
		})
	}

	result, err := h.service.PlaceOrder(order)
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListOrders lists orders either for a buyer (?email=, newest first) or
// by lifecycle status (?status=).
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	email := c.Query("email")
	status := c.Query("status")

	var (
		orders []models.Order
		err    error
	)
	switch {
	case email != "":
		orders, err = h.service.GetOrdersByBuyer(email)
	case status != "":
		orders, err = h.service.GetOrdersByStatus(status)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Either the email or the status query parameter is required.",
		})
	}
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleApproveOrder approves a pending order, decrementing product stock.
func (h *OrderHandler) HandleApproveOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.ApproveOrder(orderID)
	if err != nil {
		log.Printf("Error approving order %s: %v", orderID, err)
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound),
			errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Approval failed",
				"error":   err.Error(),
			})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Approval failed: the order would oversell the product.",
				"error":   err.Error(),
			})
		case errors.Is(err, repositories.ErrOrderNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Approval failed: the order has already been decided.",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not approve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleRejectOrder marks an order rejected.
func (h *OrderHandler) HandleRejectOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.RejectOrder(orderID)
	if err != nil {
		log.Printf("Error rejecting order %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not reject order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes an order. Administrative use only.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(orderID); err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete order",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s deleted successfully", orderID),
	})
}

// HandleAppendTracking appends the raw request body to the order's timeline.
// The payload shape is not validated.
func (h *OrderHandler) HandleAppendTracking(c *fiber.Ctx) error {
	orderID := c.Params("id")
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A tracking event payload is required.",
		})
	}

	order, err := h.service.AppendTrackingEvent(orderID, body)
	if err != nil {
		log.Printf("Error appending tracking event to order %s: %v", orderID, err)
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not append tracking event",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetTracking returns the order's tracking timeline in append order.
// Unknown orders yield an empty timeline.
func (h *OrderHandler) HandleGetTracking(c *fiber.Ctx) error {
	orderID := c.Params("id")
	events, err := h.service.GetTrackingTimeline(orderID)
	if err != nil {
		log.Printf("Error getting tracking timeline for order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve tracking timeline",
			"error":   err.Error(),
		})
	}
	if events == nil {
		events = []models.TrackingEvent{}
	}
	return c.JSON(events)
}
