package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/schema"
	lessonService "lms/services/lesson"
	lessonValidator "lms/validators/lesson"
	"lms/wizard"
)

// CreateDraft opens a new authoring session: blank for a new lesson, or
// hydrated from storage when a lessonId is supplied.
func CreateDraft(c *fiber.Ctx) error {
	lessonID, _ := c.Locals("draftLessonID").(uint)

	if lessonID == 0 {
		draft := wizard.Sessions.NewDraft()
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Draft created successfully!", draft)
	}

	payload, err := lessonService.FromDatabase().LoadPayload(lessonID)
	if err != nil {
		return middleware.JsonResponse(c, statusForKind(lessonService.KindOf(err)), false, err.Error(), nil)
	}

	draft := wizard.Sessions.NewEditDraft(payload)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Draft created successfully!", draft)
}

// GetDraft returns the current state of an authoring session
func GetDraft(c *fiber.Ctx) error {
	draft, ok := lookupDraft(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Draft not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft fetched successfully!", fiber.Map{
		"draft":   draft,
		"isDirty": draft.IsDirty(),
	})
}

// DispatchDraftAction applies one mutation to a draft
func DispatchDraftAction(c *fiber.Ctx) error {
	draft, ok := lookupDraft(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Draft not found!", nil)
	}

	envelope, ok := c.Locals("validatedAction").(*lessonValidator.ActionEnvelope)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := draft.Dispatch(actionFromEnvelope(envelope)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft updated successfully!", draft)
}

// DraftNext advances the wizard when the current step validates
func DraftNext(c *fiber.Ctx) error {
	draft, ok := lookupDraft(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Draft not found!", nil)
	}

	advanced := draft.Next()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft step evaluated!", fiber.Map{
		"draft":    draft,
		"advanced": advanced,
	})
}

// DraftBack moves the wizard one step toward the start
func DraftBack(c *fiber.Ctx) error {
	draft, ok := lookupDraft(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Draft not found!", nil)
	}

	draft.Back()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft step evaluated!", draft)
}

// SubmitDraft flushes the draft through the persistence pipeline and, on
// success, ends the session.
func SubmitDraft(c *fiber.Ctx) error {
	draft, ok := lookupDraft(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Draft not found!", nil)
	}

	if err := submitPayload(c, draft.BuildPayload()); err != nil {
		return err
	}

	// fiber has already written the response; only clean up on success
	if c.Response().StatusCode() < 300 {
		wizard.Sessions.Delete(draft.ID)
	}
	return nil
}

func lookupDraft(c *fiber.Ctx) (*wizard.Draft, bool) {
	draftID, ok := c.Locals("draftID").(string)
	if !ok {
		return nil, false
	}
	return wizard.Sessions.Get(draftID)
}

// actionFromEnvelope maps the wire envelope onto the closed action set.
// The validator already rejected unknown types.
func actionFromEnvelope(e *lessonValidator.ActionEnvelope) wizard.Action {
	switch e.Type {
	case "update_lesson_field":
		return wizard.UpdateLessonField{Field: e.Field, Value: e.Value}
	case "add_link":
		return wizard.AddLink{Link: e.Link}
	case "remove_link":
		return wizard.RemoveLink{Index: e.Index}
	case "update_link":
		return wizard.UpdateLink{Index: e.Index, Link: e.Link}
	case "add_module":
		return wizard.AddModule{}
	case "remove_module":
		return wizard.RemoveModule{Index: e.Index}
	case "update_module_field":
		return wizard.UpdateModuleField{Module: e.Module, Field: e.Field, Value: e.Value}
	case "add_resource":
		return wizard.AddResource{Module: e.Module, Resource: e.Link}
	case "remove_resource":
		return wizard.RemoveResource{Module: e.Module, Index: e.Index}
	case "update_resource":
		return wizard.UpdateResource{Module: e.Module, Index: e.Index, Resource: e.Link}
	case "add_form_field":
		return wizard.AddFormField{Module: e.Module, Field: e.FormField}
	case "remove_form_field":
		return wizard.RemoveFormField{Module: e.Module, Index: e.Index}
	case "update_form_field":
		replacement := e.FormField
		return wizard.UpdateFormField{
			Module: e.Module,
			Index:  e.Index,
			Apply: func(f *schema.FieldSpec) {
				*f = replacement
			},
		}
	case "set_complete_on_submit":
		return wizard.SetCompleteOnSubmit{Module: e.Module, Value: e.Flag}
	}
	// unreachable, the validator whitelists the type
	return nil
}
