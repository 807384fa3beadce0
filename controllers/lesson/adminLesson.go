package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	lessonModels "lms/models/lesson"
)

// AdminListLessons lists all lessons for the roster view
func AdminListLessons(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if ok && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if ok && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	var lessons []lessonModels.Lesson
	var total int64

	db := database.Database.Db.Model(&lessonModels.Lesson{}).Where("is_deleted = ?", false)
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("position asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetLesson gets a single lesson with its modules
func AdminGetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson lessonModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var modules []lessonModels.Module
	database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Order("order_index asc").Find(&modules)

	var assignmentCount int64
	if len(modules) > 0 {
		moduleIDs := make([]uint, 0, len(modules))
		for _, m := range modules {
			moduleIDs = append(moduleIDs, m.ID)
		}
		database.Database.Db.Model(&lessonModels.ModuleAssignment{}).
			Where("module_id IN ? AND is_deleted = ?", moduleIDs, false).Count(&assignmentCount)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson":           lesson,
		"modules":          modules,
		"assignment_count": assignmentCount,
	})
}

// AdminPublishLesson publishes or unpublishes a lesson
func AdminPublishLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)
	publishStatus := c.Locals("publishStatus").(bool)

	var lesson lessonModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.IsPublished = publishStatus
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	message := "Lesson unpublished successfully!"
	if publishStatus {
		message = "Lesson published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, lesson)
}

// AdminReorderLesson moves a lesson to a new roster position
func AdminReorderLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)
	position := c.Locals("position").(int)

	var lesson lessonModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.Position = position
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson reordered successfully!", lesson)
}

// AdminDeleteLesson soft deletes a lesson and its modules
func AdminDeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson lessonModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	tx := database.Database.Db.Begin()

	lesson.IsDeleted = true
	if err := tx.Save(&lesson).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	if err := tx.Model(&lessonModels.Module{}).Where("lesson_id = ?", lessonID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson modules!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ListPublishedLessons is the public roster of published lessons
func ListPublishedLessons(c *fiber.Ctx) error {
	var lessons []lessonModels.Lesson
	if err := database.Database.Db.
		Where("is_published = ? AND is_deleted = ?", true, false).
		Order("position asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
	})
}
