package lessonValidator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/schema"
	"lms/wizard"
)

var validate = validator.New()

// ActionEnvelope is the wire form of a draft mutation. Type selects the
// variant; the other fields are read per variant.
type ActionEnvelope struct {
	Type string `json:"type" validate:"required,oneof=update_lesson_field add_link remove_link update_link add_module remove_module update_module_field add_resource remove_resource update_resource add_form_field remove_form_field update_form_field set_complete_on_submit"`

	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Index  int    `json:"index,omitempty"`
	Module int    `json:"module,omitempty"`
	Flag   bool   `json:"flag,omitempty"`

	Link      wizard.LinkPayload `json:"link,omitempty"`
	FormField schema.FieldSpec   `json:"formField,omitempty"`
}

// NewDraft validates the draft creation request. A lessonId opens an edit
// session; without one the wizard starts blank.
func NewDraft() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LessonID uint `json:"lessonId"`
		})

		// an empty body is a valid create request
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("draftLessonID", reqData.LessonID)
		return c.Next()
	}
}

// DraftID validates requests addressing an existing draft
func DraftID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draftID := strings.TrimSpace(c.Params("draft_id"))
		if draftID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Draft ID is required!", nil)
		}

		c.Locals("draftID", draftID)
		return c.Next()
	}
}

// DraftAction validates a draft mutation envelope
func DraftAction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draftID := strings.TrimSpace(c.Params("draft_id"))
		if draftID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Draft ID is required!", nil)
		}

		reqData := new(ActionEnvelope)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, ve := range verrs {
					errors[strings.ToLower(ve.Field())] = "Invalid value for " + ve.Field() + "!"
				}
			} else {
				errors["action"] = "Invalid action!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("draftID", draftID)
		c.Locals("validatedAction", reqData)
		return c.Next()
	}
}
