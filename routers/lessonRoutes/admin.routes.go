package lessonRoutes

import (
	controllers "lms/controllers/lesson"
	"lms/middleware"
	validators "lms/validators/lesson"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminLessonRoutes sets up all admin lesson authoring routes
func SetupAdminLessonRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/lesson", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Submission entrypoint (create when lessonId is absent, update otherwise)
	adminGroup.Post("/submit", validators.SubmitLesson(), controllers.SubmitLesson)

	// Authoring drafts
	adminGroup.Post("/draft", validators.NewDraft(), controllers.CreateDraft)
	adminGroup.Get("/draft/:draft_id", validators.DraftID(), controllers.GetDraft)
	adminGroup.Post("/draft/:draft_id/action", validators.DraftAction(), controllers.DispatchDraftAction)
	adminGroup.Post("/draft/:draft_id/next", validators.DraftID(), controllers.DraftNext)
	adminGroup.Post("/draft/:draft_id/back", validators.DraftID(), controllers.DraftBack)
	adminGroup.Post("/draft/:draft_id/submit", validators.DraftID(), controllers.SubmitDraft)

	// Lesson roster CRUD
	adminGroup.Get("/list", validators.AdminList(), controllers.AdminListLessons)
	adminGroup.Get("/:id", validators.LessonID(), controllers.AdminGetLesson)
	adminGroup.Post("/:id/publish", validators.PublishLesson(), controllers.AdminPublishLesson)
	adminGroup.Post("/:id/reorder", validators.ReorderLesson(), controllers.AdminReorderLesson)
	adminGroup.Delete("/:id", validators.LessonID(), controllers.AdminDeleteLesson)
}

// SetupLessonRoutes sets up the public lesson routes
func SetupLessonRoutes(app *fiber.App) {
	app.Get("/lessons", controllers.ListPublishedLessons)
}
