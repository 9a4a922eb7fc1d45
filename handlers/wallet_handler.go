package handlers

import (
	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/edumarket/course_market/services"
	"github.com/gofiber/fiber/v2"
)

func GetMyWallet(c *fiber.Ctx) error {
	ownerID := principalID(c)

	wallet, err := services.Ledger.GetOrCreateWallet(c.Context(), ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wallet"})
	}

	database.DB.Where("wallet_id = ?", wallet.ID).
		Order("requested_at desc").
		Find(&wallet.WithdrawalRequests)

	return c.JSON(wallet)
}

type WithdrawalRequestBody struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func RequestWithdrawal(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var req WithdrawalRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.Ledger.RequestWithdrawal(c.Context(), ownerID, req.Amount)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMyWithdrawals(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var requests []models.WithdrawalRequest
	database.DB.Where("owner_id = ?", ownerID).Order("requested_at desc").Find(&requests)

	return c.JSON(requests)
}
