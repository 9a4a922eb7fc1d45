package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	ws "github.com/edumarket/course_market/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)
	admin.Get("/platform-wallet", handlers.GetPlatformWallet)

	admin.Get("/withdrawal-requests", handlers.ListWithdrawalRequests)
	admin.Post("/withdrawal-requests/:requestId/process", handlers.ProcessWithdrawalRequest)

	admin.Get("/orders", handlers.AdminGetOrders)
	admin.Get("/payments", handlers.AdminGetPayments)

	feed := api.Group("/admin/activity", middleware.ProtectedQuery(), middleware.AdminRequired())
	feed.Use(func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	feed.Get("/ws", websocket.New(ws.ServeActivityFeed))
}
