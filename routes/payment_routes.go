package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandleDepositWebhook)

	deposits := api.Group("/deposits", middleware.Protected())
	deposits.Post("", handlers.CreateDeposit)
}
