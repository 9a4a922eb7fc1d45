package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func CartRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	cart := api.Group("/cart")
	cart.Get("", handlers.GetMyCart)
	cart.Post("/items", handlers.AddToCart)
	cart.Delete("/items/:courseId", handlers.RemoveFromCart)
}
