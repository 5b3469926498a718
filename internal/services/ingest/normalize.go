package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// Markers the attendance export uses for missing values, compared after
// trimming and lower-casing.
var nullMarkers = map[string]struct{}{
	"":     {},
	"-":    {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"2006-01-02 15:04:05",
}

// ToSafeTime converts one spreadsheet cell into a time of day, or nil when
// the cell carries no usable time. Numeric cells are read as a fraction of
// a 24-hour day; the result is clamped to 23:59:59 so a value of 1.0 (or a
// rounding overflow) never rolls into the next day. Unparseable text is
// treated as absent, never as an error.
func ToSafeTime(cell string) *datatypes.Time {
	v := strings.TrimSpace(cell)
	if _, ok := nullMarkers[strings.ToLower(v)]; ok {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f < 0 {
			return nil
		}
		total := int(f * 86400)
		if total > 86399 {
			total = 86399
		}
		t := datatypes.NewTime(total/3600, total%3600/60, total%60, 0)
		return &t
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			t := datatypes.NewTime(parsed.Hour(), parsed.Minute(), parsed.Second(), 0)
			return &t
		}
	}
	return nil
}

func toSafeCount(cell string) *int {
	v := strings.TrimSpace(cell)
	if _, ok := nullMarkers[strings.ToLower(v)]; ok {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// Day-first layouts, tried in order; ISO forms come last so an ambiguous
// value reads day-first.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// parseDayFirstDate reads an attendance date cell. Excel serial numbers are
// accepted alongside day-first text forms.
func parseDayFirstDate(cell string) (time.Time, bool) {
	v := strings.TrimSpace(cell)
	if v == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < 1 {
			return time.Time{}, false
		}
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return midnight(parsed), true
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			return midnight(parsed), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
