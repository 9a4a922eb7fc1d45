package handlers

import (
	"math"
	"strconv"

	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title        string  `json:"title" validate:"required,min=3"`
	Description  *string `json:"description"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url"`
}

func CreateCourse(c *fiber.Ctx) error {
	tutorID := principalID(c)

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course := models.Course{
		TutorID:      tutorID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ThumbnailURL: req.ThumbnailURL,
		IsActive:     true,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var courses []models.Course
	var total int64

	query := database.DB.Model(&models.Course{}).Where("is_active = ?", true)
	query.Count(&total)
	query.Order("created_at desc").Offset(offset).Limit(limit).Preload("Tutor").Find(&courses)

	return c.JSON(fiber.Map{
		"data": courses,
		"meta": fiber.Map{
			"total":        total,
			"current_page": page,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.Preload("Tutor").First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	tutorID := principalID(c)
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.TutorID != tutorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your course"})
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	course.ThumbnailURL = req.ThumbnailURL
	database.DB.Save(&course)

	return c.JSON(course)
}

func DeactivateCourse(c *fiber.Ctx) error {
	tutorID := principalID(c)
	courseID := c.Params("courseId")

	result := database.DB.Model(&models.Course{}).
		Where("id = ? AND tutor_id = ?", courseID, tutorID).
		Update("is_active", false)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate course"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
