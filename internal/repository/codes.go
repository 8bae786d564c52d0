package repository

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// codeSuffixWidth is the zero-padded numeric width of human-facing codes
// (SSS000003, DON000002).
const codeSuffixWidth = 6

// nextCode scans existing codes with the given prefix, takes the highest
// numeric suffix and returns prefix + zero-padded(max+1). Starts at 1 when
// no codes match. Callers run this inside the insert transaction; the
// unique index on code plus one retry closes the remaining race window.
func nextCode(tx *gorm.DB, model interface{}, prefix string) (string, error) {
	var codes []string
	err := tx.Model(model).
		Where("code LIKE ?", prefix+"%").
		Pluck("code", &codes).Error
	if err != nil {
		return "", err
	}

	max := 0
	for _, code := range codes {
		suffix := strings.TrimPrefix(code, prefix)
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, codeSuffixWidth, max+1), nil
}

// isDuplicateKey reports whether an insert failed on a unique constraint.
// gorm only translates to ErrDuplicatedKey when TranslateError is enabled,
// so the driver messages are checked as well (MySQL and sqlite).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
