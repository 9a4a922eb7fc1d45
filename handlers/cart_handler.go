package handlers

import (
	"errors"

	"github.com/edumarket/course_market/database"
	"github.com/edumarket/course_market/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddToCartRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// recomputeCartTotal keeps TotalPrice equal to the sum of the cart's item
// prices after every mutation.
func recomputeCartTotal(tx *gorm.DB, cart *models.Cart) error {
	var total float64
	err := tx.Model(&models.CartItem{}).
		Joins("JOIN courses ON courses.id = cart_items.course_id").
		Where("cart_items.cart_id = ?", cart.ID).
		Select("COALESCE(SUM(courses.price), 0)").
		Row().Scan(&total)
	if err != nil {
		return err
	}
	cart.TotalPrice = total
	return tx.Save(cart).Error
}

func AddToCart(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	courseID := uuid.MustParse(req.CourseID)

	var course models.Course
	if err := database.DB.First(&course, "id = ? AND is_active = ?", courseID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.TutorID == ownerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot buy your own course"})
	}

	var cart models.Cart
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.Cart{OwnerID: ownerID}).FirstOrCreate(&cart).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, "id = ?", cart.ID).Error; err != nil {
			return err
		}

		item := models.CartItem{CartID: cart.ID, CourseID: courseID}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("course is already in your cart")
			}
			return err
		}
		return recomputeCartTotal(tx, &cart)
	})
	if err != nil {
		if err.Error() == "course is already in your cart" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add course to cart"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Course added to cart", "cart_id": cart.ID})
}

func RemoveFromCart(c *fiber.Ctx) error {
	ownerID := principalID(c)
	courseID := c.Params("courseId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, "owner_id = ?", ownerID).Error; err != nil {
			return errors.New("cart not found")
		}

		result := tx.Where("cart_id = ? AND course_id = ?", cart.ID, courseID).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("course is not in your cart")
		}

		var remaining int64
		if err := tx.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Delete(&cart).Error
		}
		return recomputeCartTotal(tx, &cart)
	})
	if err != nil {
		if err.Error() == "cart not found" || err.Error() == "course is not in your cart" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove course from cart"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyCart(c *fiber.Ctx) error {
	ownerID := principalID(c)

	var cart models.Cart
	err := database.DB.Preload("Items.Course").First(&cart, "owner_id = ?", ownerID).Error
	if err != nil {
		return c.JSON(fiber.Map{"items": []models.CartItem{}, "total_price": 0})
	}
	return c.JSON(cart)
}
