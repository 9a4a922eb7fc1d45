package routes

import (
	"github.com/edumarket/course_market/handlers"
	"github.com/edumarket/course_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)

	tutorCourses := api.Group("/courses", middleware.Protected(), middleware.TutorRequired())
	tutorCourses.Post("", handlers.CreateCourse)
	tutorCourses.Put("/:courseId", handlers.UpdateCourse)
	tutorCourses.Delete("/:courseId", handlers.DeactivateCourse)
}
