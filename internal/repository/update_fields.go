package repository

import (
	"time"

	"github.com/sevasetu/backend/internal/common"
)

// filterAllowedFields keeps only the allow-listed, non-nil entries of a
// partial update and stamps updated_at. Returns ErrNoFieldsToUpdate-backed
// ValidationError when nothing survives the filter; no write happens in
// that case.
func filterAllowedFields(fields map[string]interface{}, allowed map[string]bool) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		if value == nil || !allowed[name] {
			continue
		}
		updates[name] = value
	}

	if len(updates) == 0 {
		return nil, common.NewValidationError("no fields to update")
	}

	updates["updated_at"] = time.Now()
	return updates, nil
}
