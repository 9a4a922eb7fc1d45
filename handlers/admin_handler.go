package handlers

import (
	"fmt"
	"time"

	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/edumarket/course_market/notifications"
	"github.com/edumarket/course_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListWithdrawalRequests(c *fiber.Ctx) error {
	var requests []models.WithdrawalRequest
	database.DB.Preload("Owner").Where("status = ?", models.WithdrawalPending).Order("requested_at asc").Find(&requests)
	return c.JSON(requests)
}

func ProcessWithdrawalRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID format"})
	}

	type ProcessRequest struct {
		Decision   string `json:"decision" validate:"required,oneof=approve reject"`
		AdminNotes string `json:"admin_notes"`
	}
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request *models.WithdrawalRequest
	if req.Decision == "approve" {
		request, err = services.Ledger.ApproveWithdrawal(c.Context(), requestID, req.AdminNotes)
	} else {
		request, err = services.Ledger.RejectWithdrawal(c.Context(), requestID, req.AdminNotes)
	}
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	var tutor models.User
	if err := database.DB.First(&tutor, "id = ?", request.OwnerID).Error; err == nil {
		if request.Status == models.WithdrawalApproved {
			go notifications.SendEmail(tutor.FullName, tutor.Email, "Your Payout Has Been Processed",
				fmt.Sprintf("<h1>Payout Processed</h1><p>Hello %s,</p><p>Your payout request for the amount of $%.2f has been processed and sent by our team.</p>", tutor.FullName, request.Amount))
		} else {
			go notifications.SendEmail(tutor.FullName, tutor.Email, "Update on Your Payout Request",
				fmt.Sprintf("<h1>Payout Request Update</h1><p>Hello %s,</p><p>Your payout request for the amount of $%.2f was rejected.</p><p><b>Admin Notes:</b> %s</p>", tutor.FullName, request.Amount, req.AdminNotes))
		}
	}

	return c.JSON(fiber.Map{"message": "Withdrawal request processed.", "request": request})
}

func GetPlatformWallet(c *fiber.Ctx) error {
	var platform models.PlatformWallet
	if err := database.DB.First(&platform, "slot = ?", 1).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Platform wallet not initialized"})
	}
	return c.JSON(platform)
}

type DashboardAnalyticsResponse struct {
	TotalStudents    int64          `json:"total_students"`
	TotalTutors      int64          `json:"total_tutors"`
	TotalRevenue     float64        `json:"total_revenue"`
	OrdersLast30Days int64          `json:"orders_last_30_days"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse

	database.DB.Model(&models.User{}).Where("role = ?", "student").Count(&response.TotalStudents)
	database.DB.Model(&models.User{}).Where("role = ?", "tutor").Count(&response.TotalTutors)

	var platform models.PlatformWallet
	if err := database.DB.First(&platform, "slot = ?", 1).Error; err == nil {
		response.TotalRevenue = platform.TotalEarning
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Order{}).Where("order_date > ?", thirtyDaysAgo).Count(&response.OrdersLast30Days)

	database.DB.Order("order_date desc").Limit(5).Preload("Items").Find(&response.RecentOrders)

	return c.JSON(response)
}
