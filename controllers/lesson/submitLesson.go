package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	lessonService "lms/services/lesson"
	"lms/utils"
	"lms/wizard"
)

// statusForKind maps pipeline error kinds to HTTP statuses. The message
// string still travels verbatim; the kind only picks the status code.
func statusForKind(kind lessonService.Kind) int {
	switch kind {
	case lessonService.KindValidation:
		return fiber.StatusUnprocessableEntity
	case lessonService.KindPermission:
		return fiber.StatusForbidden
	case lessonService.KindNotFound:
		return fiber.StatusNotFound
	case lessonService.KindReferential:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// SubmitLesson accepts a canonical lesson payload and runs the full
// persistence pipeline: create when lessonId is absent, update otherwise.
func SubmitLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSubmit").(*wizard.SubmitPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	return submitPayload(c, reqData)
}

// submitPayload is shared by the direct entrypoint and the draft submit.
func submitPayload(c *fiber.Ctx, reqData *wizard.SubmitPayload) error {
	// editor bodies arrive as rich text; persist markdown
	reqData.Body = utils.ToMarkdown(reqData.Body)
	for i := range reqData.Modules {
		reqData.Modules[i].Body = utils.ToMarkdown(reqData.Modules[i].Body)
	}

	create := reqData.LessonID == 0

	payload, err := wizard.Normalize(reqData, create)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	id, err := lessonService.FromDatabase().Submit(payload)
	if err != nil {
		return middleware.JsonResponse(c, statusForKind(lessonService.KindOf(err)), false, err.Error(), nil)
	}

	status := fiber.StatusOK
	message := "Lesson updated successfully!"
	if create {
		status = fiber.StatusCreated
		message = "Lesson created successfully!"
	}

	return middleware.JsonResponse(c, status, true, message, fiber.Map{"id": id})
}
