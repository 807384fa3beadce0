package lessonService

import (
	"encoding/json"

	"gorm.io/gorm"

	lessonModels "lms/models/lesson"
	"lms/schema"
	"lms/wizard"
)

// LoadPayload hydrates a persisted lesson graph into the canonical payload
// shape, decoding stored resource lists and assignment schemas (including
// legacy homework rows) on the way. Used to open edit drafts.
func (o *Orchestrator) LoadPayload(lessonID uint) (*wizard.SubmitPayload, error) {
	var row lessonModels.Lesson
	if err := o.readWithFallback(func(db *gorm.DB) error {
		return db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&row).Error
	}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, newError(KindNotFound, "Lesson not found!", err)
		}
		return nil, newError(KindInternal, "Failed to load lesson!", err)
	}

	p := &wizard.SubmitPayload{
		LessonID: row.ID,
		Title:    row.Title,
		Subtitle: row.Subtitle,
		Body:     row.Body,
		VideoURL: row.VideoURL,
		Links:    decodeLinks(row.Links),
	}

	var modules []lessonModels.Module
	if err := o.Ambient.Where("lesson_id = ? AND is_deleted = ?", row.ID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return nil, newError(KindInternal, "Failed to load lesson modules!", err)
	}

	for _, m := range modules {
		mp := wizard.ModulePayload{
			ModuleID: m.ID,
			Title:    m.Title,
			Subtitle: m.Subtitle,
			Body:     m.Body,
			VideoURL: m.VideoURL,
		}

		var content lessonModels.ModuleContent
		err := o.Ambient.Where("module_id = ? AND is_deleted = ?", m.ID, false).
			First(&content).Error
		if err == nil {
			mp.Resources = decodeLinks(content.Resources)
			if content.VideoURL != "" {
				mp.VideoURL = content.VideoURL
			}
		} else if err != gorm.ErrRecordNotFound {
			return nil, newError(KindInternal, "Failed to load module resources!", err)
		}

		var assignment lessonModels.ModuleAssignment
		err = o.Ambient.Where("module_id = ? AND is_deleted = ?", m.ID, false).
			First(&assignment).Error
		if err == nil {
			decoded, decodeErr := schema.DecodeSchema(assignment.Fields)
			if decodeErr != nil {
				return nil, newError(KindInternal, "Failed to decode assignment schema!", decodeErr)
			}
			mp.FormFields = decoded.Fields
			mp.CompleteOnSubmit = decoded.CompleteOnSubmit || assignment.CompleteOnSubmit
		} else if err != gorm.ErrRecordNotFound {
			return nil, newError(KindInternal, "Failed to load module assignment!", err)
		}

		p.Modules = append(p.Modules, mp)
	}

	return p, nil
}

func decodeLinks(raw []byte) []wizard.LinkPayload {
	if len(raw) == 0 {
		return nil
	}
	var links []wizard.LinkPayload
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil
	}
	return links
}
