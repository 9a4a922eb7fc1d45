package handlers

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/edumarket/course_market/notifications"
	"github.com/edumarket/course_market/services"
	"github.com/gofiber/fiber/v2"
)

type CreateDepositRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

func CreateDeposit(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var req CreateDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	description := req.Description
	if description == "" {
		description = "Wallet deposit"
	}

	payment, err := services.Ledger.CreateDeposit(c.Context(), ownerID, req.Amount, description)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_code":   payment.OrderCode,
		"amount":       payment.Amount,
		"checkout_url": payment.CheckoutURL,
	})
}

type DepositWebhookPayload struct {
	OrderCode string `json:"order_code"`
	Status    string `json:"status"`
}

// HandleDepositWebhook applies the provider's verdict. The provider retries
// until it sees a 2xx, so an already-processed payment is acknowledged with
// its prior outcome instead of an error.
func HandleDepositWebhook(c *fiber.Ctx) error {
	var payload DepositWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	log.Printf("Received deposit webhook for order code %s with status %s", payload.OrderCode, payload.Status)

	payment, applied, err := services.Ledger.ConfirmDeposit(c.Context(), payload.OrderCode, payload.Status)
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
		}
		if services.IsKind(err, services.KindValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("🔥 CRITICAL: Error processing deposit webhook for order code %s: %v", payload.OrderCode, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	if !applied {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed", "status": payment.Status})
	}

	if payment.Status == models.PaymentPaid {
		var owner models.User
		if err := database.DB.First(&owner, "id = ?", payment.OwnerID).Error; err == nil {
			go notifications.SendEmail(owner.FullName, owner.Email, "Deposit Confirmed!",
				fmt.Sprintf("<h1>Deposit Confirmed</h1><p>Your deposit of $%.2f has been credited to your wallet.</p>", payment.Amount))
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully", "status": payment.Status})
}

func AdminGetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Payment{})
	countQuery := database.DB.Model(&models.Payment{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}

	var total int64
	var payments []models.Payment
	countQuery.Count(&total)
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&payments)

	return c.JSON(fiber.Map{
		"data": payments,
		"meta": fiber.Map{"total": total, "page": page, "last_page": int(math.Ceil(float64(total) / float64(limit)))},
	})
}
