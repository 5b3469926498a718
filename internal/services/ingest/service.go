package ingest

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"attendance-reconciliation-backend/internal/models"
	"attendance-reconciliation-backend/internal/services/matching"
)

// Attendance export column order. The export carries no trustworthy header
// row, so columns are assigned positionally.
const (
	colEmployeeID = iota
	colName
	colUserType
	colDesignation
	colDepartment
	colLocation
	colFirstIn
	colLastOut
	colGrossTime
	colOutOfOfficeTime
	colOutOfOfficeCount
	colNetOfficeTime
	colDate
)

var ErrNoAttendanceDates = errors.New("no parseable date found in the attendance file")

type RosterStore interface {
	Upsert(entry *models.Roster) error
}

type AttendanceStore interface {
	Upsert(entry *models.Attendance) error
}

type BatchStore interface {
	Create(batch *models.UploadBatch) error
}

type Service struct {
	rosters    RosterStore
	attendance AttendanceStore
	batches    BatchStore
	matcher    *matching.Engine
}

func NewService(rosters RosterStore, attendance AttendanceStore, batches BatchStore, matcher *matching.Engine) *Service {
	return &Service{rosters: rosters, attendance: attendance, batches: batches, matcher: matcher}
}

// Summary reports what one upload wrote.
type Summary struct {
	Year              int
	Month             time.Month
	RosterRecords     int
	AttendanceRecords int
	MatchedNames      int
	DroppedNames      int
}

// ProcessUpload ingests one roster sheet and one attendance export. The
// attendance file's first parseable date anchors the processing month that
// the roster's day-number columns are resolved against. Rows and cells
// that cannot be read are skipped individually; ingestion is not rolled
// back on a later failure, and re-upload is the correction path.
func (s *Service) ProcessUpload(rosterFilename, attendanceFilename string, rosterRows, attendanceRows [][]string) (*Summary, error) {
	year, month, err := processingMonth(attendanceRows)
	if err != nil {
		return nil, err
	}

	sheet, err := parseRosterSheet(rosterRows)
	if err != nil {
		return nil, err
	}

	rawNames := attendanceNames(attendanceRows)
	nameMap := s.matcher.MapNames(rawNames, sheet.names())
	log.Printf("Matched %d of %d attendance names against the roster", len(nameMap), len(rawNames))

	summary := &Summary{
		Year:         year,
		Month:        month,
		MatchedNames: len(nameMap),
		DroppedNames: len(rawNames) - len(nameMap),
	}

	summary.RosterRecords, err = s.ingestRoster(sheet, year, month)
	if err != nil {
		return nil, err
	}
	summary.AttendanceRecords, err = s.ingestAttendance(attendanceRows, nameMap)
	if err != nil {
		return nil, err
	}

	batch := &models.UploadBatch{
		ID:                 uuid.New(),
		RosterFilename:     rosterFilename,
		AttendanceFilename: attendanceFilename,
		Year:               year,
		Month:              int(month),
		RosterRecords:      summary.RosterRecords,
		AttendanceRecords:  summary.AttendanceRecords,
		MatchedNames:       summary.MatchedNames,
		DroppedNames:       summary.DroppedNames,
		Status:             "completed",
		CreatedAt:          time.Now(),
	}
	if err := s.batches.Create(batch); err != nil {
		return nil, err
	}

	return summary, nil
}

// processingMonth takes the year and month of the first parseable date in
// the attendance export. The roster grid has no date column of its own, so
// this anchors both files to the same month.
func processingMonth(rows [][]string) (int, time.Month, error) {
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if date, ok := parseDayFirstDate(cellValue(row, colDate)); ok {
			return date.Year(), date.Month(), nil
		}
	}
	return 0, 0, ErrNoAttendanceDates
}

type dayColumn struct {
	idx int
	day int
}

type rosterSheet struct {
	nameIdx int
	teamIdx int
	dayCols []dayColumn
	rows    [][]string
}

// parseRosterSheet reads the header row: a "name" column, a "sr no" team
// column, and one column per day of the month (purely numeric header).
func parseRosterSheet(rows [][]string) (*rosterSheet, error) {
	if len(rows) == 0 {
		return nil, errors.New("roster sheet is empty")
	}

	sheet := &rosterSheet{nameIdx: -1, teamIdx: -1, rows: rows[1:]}
	for i, header := range rows[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case h == "name":
			sheet.nameIdx = i
		case h == "sr no":
			sheet.teamIdx = i
		case isDigits(h):
			day, _ := strconv.Atoi(h)
			sheet.dayCols = append(sheet.dayCols, dayColumn{idx: i, day: day})
		}
	}
	if sheet.nameIdx < 0 {
		return nil, errors.New(`roster sheet has no "name" column`)
	}
	if sheet.teamIdx < 0 {
		return nil, errors.New(`roster sheet has no "sr no" column`)
	}
	return sheet, nil
}

// names returns the distinct person names on the sheet, first-seen order.
func (sh *rosterSheet) names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range sh.rows {
		name := cellValue(row, sh.nameIdx)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ingestRoster reshapes the wide per-day grid into one record per
// (person, day). A day number that does not exist in the processing month
// skips that cell only, never the row.
func (s *Service) ingestRoster(sheet *rosterSheet, year int, month time.Month) (int, error) {
	count := 0
	for _, row := range sheet.rows {
		name := cellValue(row, sheet.nameIdx)
		if name == "" {
			continue
		}
		team := cellValue(row, sheet.teamIdx)
		for _, col := range sheet.dayCols {
			date, ok := dayOfMonth(year, month, col.day)
			if !ok {
				continue
			}
			entry := &models.Roster{
				ID:       uuid.New(),
				Name:     name,
				Date:     date,
				Team:     team,
				Schedule: cellValue(row, col.idx),
			}
			if err := s.rosters.Upsert(entry); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// ingestAttendance normalizes each export row and upserts it under the
// canonical name. Rows with an unparseable date or an unmatched name are
// dropped.
func (s *Service) ingestAttendance(rows [][]string, nameMap map[string]string) (int, error) {
	count := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		date, ok := parseDayFirstDate(cellValue(row, colDate))
		if !ok {
			continue
		}
		name, ok := nameMap[cellValue(row, colName)]
		if !ok {
			continue
		}

		entry := &models.Attendance{
			ID:               uuid.New(),
			Name:             name,
			Date:             date,
			EmployeeID:       cellValue(row, colEmployeeID),
			UserType:         cellValue(row, colUserType),
			Designation:      cellValue(row, colDesignation),
			Department:       cellValue(row, colDepartment),
			Location:         cellValue(row, colLocation),
			FirstIn:          ToSafeTime(cellValue(row, colFirstIn)),
			LastOut:          ToSafeTime(cellValue(row, colLastOut)),
			GrossTime:        ToSafeTime(cellValue(row, colGrossTime)),
			OutOfOfficeTime:  ToSafeTime(cellValue(row, colOutOfOfficeTime)),
			OutOfOfficeCount: toSafeCount(cellValue(row, colOutOfOfficeCount)),
			NetOfficeTime:    ToSafeTime(cellValue(row, colNetOfficeTime)),
		}
		if err := s.attendance.Upsert(entry); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// attendanceNames returns the distinct raw name spellings in the export,
// first-seen order.
func attendanceNames(rows [][]string) []string {
	seen := make(map[string]struct{})
	var names []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := cellValue(row, colName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// dayOfMonth validates a day number against the processing month; Go
// normalizes out-of-range dates, so a changed month or day means the day
// does not exist.
func dayOfMonth(year int, month time.Month, day int) (time.Time, bool) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
