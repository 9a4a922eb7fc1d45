package handlers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/edumarket/course_market/notifications"
	"github.com/edumarket/course_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	CartID string `json:"cart_id" validate:"required,uuid"`
}

func CreateOrder(c *fiber.Ctx) error {
	buyerID := principalID(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := services.Ledger.SettleCart(c.Context(), buyerID, uuid.MustParse(req.CartID))
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	var buyer models.User
	if err := database.DB.First(&buyer, "id = ?", buyerID).Error; err == nil {
		go services.GenerateOrderReceipt(*order, buyer)
		go notifications.SendEmail(buyer.FullName, buyer.Email, "Your Order is Confirmed!",
			fmt.Sprintf("<h1>Order Confirmed</h1><p>Your order %s for $%.2f has been settled. Your courses are now available.</p>", order.OrderNumber, order.TotalPrice))
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func GetMyOrders(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var orders []models.Order
	database.DB.
		Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("order_date desc").
		Find(&orders)

	return c.JSON(orders)
}

func GetOrder(c *fiber.Ctx) error {
	ownerID := principalID(c)
	orderID := c.Params("orderId")

	var order models.Order
	if err := database.DB.Preload("Items").First(&order, "id = ? AND owner_id = ?", orderID, ownerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(order)
}

func AdminGetOrders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var orders []models.Order
	var total int64

	database.DB.Model(&models.Order{}).Count(&total)
	database.DB.Order("order_date desc").Offset(offset).Limit(limit).Preload("Items").Find(&orders)

	return c.JSON(fiber.Map{
		"data": orders,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}
