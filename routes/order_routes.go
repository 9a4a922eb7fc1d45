package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	orders := api.Group("/orders")
	orders.Post("", handlers.CreateOrder)
	orders.Get("", handlers.GetMyOrders)
	orders.Get("/:orderId", handlers.GetOrder)
}
