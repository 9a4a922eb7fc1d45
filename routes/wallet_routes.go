package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	wallet := api.Group("/wallet")
	wallet.Get("", handlers.GetMyWallet)
	wallet.Get("/withdrawals", handlers.GetMyWithdrawals)

	tutorWallet := api.Group("/wallet", middleware.TutorRequired())
	tutorWallet.Post("/withdrawals", handlers.RequestWithdrawal)
}
