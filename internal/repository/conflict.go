package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

// Store-level uniqueness constraints mapped to the submission field
// they guard. Violations surface as validation errors, not crashes.
var uniqueConstraintFields = map[string]struct{ field, message string }{
	"users_username_key":           {"username", "username is already taken"},
	"users_faculty_number_key":     {"faculty_number", "faculty number is already in use"},
	"users_service_email_key":      {"service_email", "service email is already in use"},
	"student_applications_egn_key": {"egn", "an application with this EGN already exists"},
	"specialties_name_key":         {"name", "a specialty with this name already exists"},
}

// translateUniqueViolation converts a Postgres unique violation into a
// field-level validation error; any other error is returned as given.
func translateUniqueViolation(err error, fallback error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		if mapping, ok := uniqueConstraintFields[pqErr.Constraint]; ok {
			return appErrors.Validation("validation failed", map[string]string{mapping.field: mapping.message})
		}
		return appErrors.Clone(appErrors.ErrConflict, "duplicate value")
	}
	return fallback
}
