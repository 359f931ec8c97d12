package utils

import (
	"foodievent/src/config"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ParseFormTime accepts datetime-local values and RFC3339. Blank input yields
// the zero time so the required rule reports it.
func ParseFormTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(config.FORM_TIME_FORMAT, v, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func ParseDecimal(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

// SecureFilename strips directories and unsafe characters from an upload name
// and prefixes a short random id so uploads never overwrite each other.
func SecureFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(base)
	stem := slug.Make(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "upload"
	}
	return uuid.NewString()[:8] + "-" + stem + ext
}
