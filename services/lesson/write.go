package lessonService

import (
	"strings"

	"gorm.io/gorm"

	"lms/database"
)

// Orchestrator owns the ordered multi-table writes of the authoring
// pipeline. Ambient is the caller's session role; Elevated is the service
// role used for exactly one retry when a write is rejected by a row-level
// policy rather than by bad data.
type Orchestrator struct {
	Ambient  *gorm.DB
	Elevated *gorm.DB
}

func NewOrchestrator(ambient, elevated *gorm.DB) *Orchestrator {
	if elevated == nil {
		elevated = ambient
	}
	return &Orchestrator{Ambient: ambient, Elevated: elevated}
}

// FromDatabase builds the orchestrator over the global connections.
func FromDatabase() *Orchestrator {
	return NewOrchestrator(database.Database.Db, database.Database.Admin)
}

// policyMarkers identify errors caused by a row-level permission policy.
// Everything else is a data or infrastructure problem and must not be
// retried under elevated credentials.
var policyMarkers = []string{
	"permission denied",
	"row-level security",
	"insufficient_privilege",
	"sqlstate 42501",
}

func isPolicyDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range policyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// writeWithFallback runs one write on the ambient handle. A policy
// rejection gets exactly one retry on the elevated handle when the caller
// allows it; any other failure surfaces immediately.
func (o *Orchestrator) writeWithFallback(allowElevatedRetry bool, message string, op func(db *gorm.DB) error) error {
	err := op(o.Ambient)
	if err == nil {
		return nil
	}

	if !isPolicyDenied(err) {
		return newError(KindInternal, message, err)
	}

	if allowElevatedRetry {
		if retryErr := op(o.Elevated); retryErr == nil {
			return nil
		} else {
			err = retryErr
		}
	}

	return newError(KindPermission, message, err)
}

// readWithFallback mirrors writeWithFallback for lookups: row-level
// policies can hide rows from the ambient session entirely, which shows up
// as either a policy error or an empty result.
func (o *Orchestrator) readWithFallback(op func(db *gorm.DB) error) error {
	err := op(o.Ambient)
	if err == nil {
		return nil
	}
	if err == gorm.ErrRecordNotFound || isPolicyDenied(err) {
		return op(o.Elevated)
	}
	return err
}
