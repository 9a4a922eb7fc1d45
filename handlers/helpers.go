package handlers

import (
	"github.com/edumarket/course_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func principalID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

// ledgerErrorResponse maps a ledger error kind onto an HTTP status with a
// machine-readable kind alongside the message.
func ledgerErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindValidation:
		status = fiber.StatusBadRequest
	case services.KindInsufficientFunds:
		status = fiber.StatusPaymentRequired
	}
	body := fiber.Map{"error": err.Error()}
	if kind := services.KindOf(err); kind != "" {
		body["kind"] = string(kind)
	}
	return c.Status(status).JSON(body)
}
