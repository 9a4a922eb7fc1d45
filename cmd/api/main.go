package main

import (
	"log"
	"time"

	config "github.com/edumarket/course_market/configs"
	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/jobs"
	"github.com/edumarket/course_market/notifications"
	"github.com/edumarket/course_market/payments"
	"github.com/edumarket/course_market/routes"
	"github.com/edumarket/course_market/services"
	"github.com/edumarket/course_market/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	database.EnsurePlatformWallet()
	notifications.InitEmailService()

	services.InitLedger(
		services.NewGormRepository(database.DB),
		payments.NewPayPalClient(),
		config.CommissionRate(),
		websocket.Publish,
	)

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.ExpireStalePayments)
	go c.Start()
	log.Println("✅ Cron job for stale payment expiry scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Course Market",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Course Market API",
		})
	})

	routes.AuthRoutes(app)
	routes.CourseRoutes(app)
	routes.CartRoutes(app)
	routes.OrderRoutes(app)
	routes.PaymentRoutes(app)
	routes.WalletRoutes(app)
	routes.AdminRoutes(app)
	routes.UploadRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
