package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"attendance-reconciliation-backend/internal/models"
)

var (
	// ErrMissingFilter is a validation failure: the count action needs a
	// name query or an employee id.
	ErrMissingFilter = errors.New("a name query (q=...) or an ID query (id=...) is required")
	// ErrInvalidDate is a validation failure on start_date/end_date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrNoData means the attendance store is empty, so no default period
	// can be resolved. Distinct from a filter that matched nobody.
	ErrNoData = errors.New("no data found for the requested period")
	// ErrNotFound means a filter matched no employee.
	ErrNotFound = errors.New("not found")
)

// Attendance days below this net office time are flagged as low hours.
var lowHoursLimit = datatypes.NewTime(8, 0, 0, 0)

type RosterStore interface {
	InRange(start, end time.Time) ([]models.Roster, error)
}

type AttendanceStore interface {
	LatestDate() (time.Time, bool, error)
	InRange(start, end time.Time) ([]models.Attendance, error)
	LowHours(start, end time.Time, limit datatypes.Time) ([]models.Attendance, error)
	NamesByEmployeeID(id string, start, end time.Time) ([]string, error)
	EmployeeID(name string) (string, error)
}

type Service struct {
	rosters    RosterStore
	attendance AttendanceStore
}

func NewService(rosters RosterStore, attendance AttendanceStore) *Service {
	return &Service{rosters: rosters, attendance: attendance}
}

// Params are the request filters shared by every query action.
type Params struct {
	Query      string
	EmployeeID string
	Team       string
	Shift      string
	StartDate  string
	EndDate    string
}

var queryDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

func parseQueryDate(value string) (time.Time, bool) {
	for _, layout := range queryDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// resolveRange picks the period to query. An explicit start date wins, with
// the end date defaulting to the start; otherwise the range is the calendar
// month containing the latest stored attendance date.
func (s *Service) resolveRange(p Params) (time.Time, time.Time, error) {
	if p.StartDate != "" {
		start, ok := parseQueryDate(p.StartDate)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, p.StartDate)
		}
		end := start
		if p.EndDate != "" {
			end, ok = parseQueryDate(p.EndDate)
			if !ok {
				return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, p.EndDate)
			}
		}
		return start, end, nil
	}

	latest, ok, err := s.attendance.LatestDate()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		return time.Time{}, time.Time{}, ErrNoData
	}
	start := time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1), nil
}

// CountResult carries one employee's per-category roster totals.
type CountResult struct {
	Employee    string         `json:"employee"`
	EmployeeID  string         `json:"employee_id"`
	PeriodStart string         `json:"period_start"`
	PeriodEnd   string         `json:"period_end"`
	Counts      map[string]int `json:"counts"`
}

// Count aggregates roster entries per category for every employee matched
// by the name query or employee id.
func (s *Service) Count(p Params) ([]CountResult, error) {
	if p.Query == "" && p.EmployeeID == "" {
		return nil, ErrMissingFilter
	}

	start, end, err := s.resolveRange(p)
	if err != nil {
		return nil, err
	}
	rosters, err := s.rosters.InRange(start, end)
	if err != nil {
		return nil, err
	}

	var names []string
	if p.EmployeeID != "" {
		names, err = s.attendance.NamesByEmployeeID(p.EmployeeID, start, end)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no employee with ID %q", ErrNotFound, p.EmployeeID)
		}
	} else {
		names = distinctNames(filterByWords(rosters, p.Query))
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no employee matching %q", ErrNotFound, p.Query)
		}
	}

	results := make([]CountResult, 0, len(names))
	for _, name := range names {
		counts := map[string]int{
			"Total WFO": 0, "Total WFH": 0, "Total WO": 0, "Total PL": 0,
		}
		for i := range rosters {
			if rosters[i].Name != name {
				continue
			}
			switch ClassifyShift(rosters[i].Schedule) {
			case CategoryWFO:
				counts["Total WFO"]++
			case CategoryWFH:
				counts["Total WFH"]++
			case CategoryWO:
				counts["Total WO"]++
			case CategoryPL:
				counts["Total PL"]++
			}
		}
		counts["Total working days"] = counts["Total WFO"] + counts["Total WFH"]
		counts["Total Leaves"] = counts["Total WO"] + counts["Total PL"]

		employeeID, err := s.attendance.EmployeeID(name)
		if err != nil {
			return nil, err
		}

		results = append(results, CountResult{
			Employee:    name,
			EmployeeID:  employeeID,
			PeriodStart: start.Format("2006-01-02"),
			PeriodEnd:   end.Format("2006-01-02"),
			Counts:      counts,
		})
	}
	return results, nil
}

// LowHoursEntry is one under-worked day joined with its roster entry.
type LowHoursEntry struct {
	Name          string         `json:"name"`
	EmployeeID    string         `json:"employee_id"`
	Team          string         `json:"team"`
	Date          string         `json:"date"`
	Shift         string         `json:"shift"`
	NetOfficeTime datatypes.Time `json:"net_office_time"`
}

// LowHours flags attendance days with net office time below eight hours,
// keeping only days the person was scheduled to work (PL and WO roster
// entries are excluded from the join).
func (s *Service) LowHours(p Params) ([]LowHoursEntry, error) {
	return s.lowHours(p, true)
}

// NonPLLowHours is the looser variant: only PL days are excluded, so a
// weekly-off day with low logged hours still shows up.
func (s *Service) NonPLLowHours(p Params) ([]LowHoursEntry, error) {
	return s.lowHours(p, false)
}

func (s *Service) lowHours(p Params, excludeWeeklyOff bool) ([]LowHoursEntry, error) {
	start, end, err := s.resolveRange(p)
	if err != nil {
		return nil, err
	}
	attendances, err := s.attendance.LowHours(start, end, lowHoursLimit)
	if err != nil {
		return nil, err
	}
	rosters, err := s.rosters.InRange(start, end)
	if err != nil {
		return nil, err
	}

	rosterMap := make(map[recordKey]*models.Roster, len(rosters))
	for i := range rosters {
		shift := strings.ToUpper(strings.TrimSpace(rosters[i].Schedule))
		if shift == "PL" || (excludeWeeklyOff && shift == "WO") {
			continue
		}
		rosterMap[keyOf(rosters[i].Name, rosters[i].Date)] = &rosters[i]
	}

	results := []LowHoursEntry{}
	for i := range attendances {
		att := &attendances[i]
		if att.NetOfficeTime == nil {
			continue
		}
		roster, ok := rosterMap[keyOf(att.Name, att.Date)]
		if !ok {
			continue
		}
		results = append(results, LowHoursEntry{
			Name:          att.Name,
			EmployeeID:    att.EmployeeID,
			Team:          roster.Team,
			Date:          att.Date.Format("2006-01-02"),
			Shift:         roster.Schedule,
			NetOfficeTime: *att.NetOfficeTime,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].Name < results[j].Name
	})
	return results, nil
}

// AttendanceDetail is the attendance side of a search row; all fields are
// null when the person has no attendance record for that day.
type AttendanceDetail struct {
	Department       *string         `json:"department"`
	FirstIn          *datatypes.Time `json:"first_in"`
	LastOut          *datatypes.Time `json:"last_out"`
	GrossTime        *datatypes.Time `json:"gross_time"`
	OutOfOfficeTime  *datatypes.Time `json:"out_of_office_time"`
	OutOfOfficeCount *int            `json:"out_of_office_count"`
	NetOfficeTime    *datatypes.Time `json:"net_office_time"`
}

// SearchRow is one roster day left-joined with its attendance record.
type SearchRow struct {
	Name       string           `json:"name"`
	EmployeeID *string          `json:"employee_id"`
	Team       string           `json:"team"`
	Date       string           `json:"date"`
	Schedule   string           `json:"schedule"`
	Attendance AttendanceDetail `json:"attendance"`
}

// Search filters the roster by team, name words, shift and employee id,
// then left-joins each remaining row to its attendance record through an
// in-memory (name, date) map so the store is hit a bounded number of times.
func (s *Service) Search(p Params) ([]SearchRow, error) {
	start, end, err := s.resolveRange(p)
	if err != nil {
		return nil, err
	}
	rosters, err := s.rosters.InRange(start, end)
	if err != nil {
		return nil, err
	}

	if p.EmployeeID != "" {
		names, err := s.attendance.NamesByEmployeeID(p.EmployeeID, start, end)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return []SearchRow{}, nil
		}
		allowed := make(map[string]struct{}, len(names))
		for _, name := range names {
			allowed[name] = struct{}{}
		}
		rosters = filterRoster(rosters, func(r *models.Roster) bool {
			_, ok := allowed[r.Name]
			return ok
		})
	}
	if p.Team != "" {
		rosters = filterRoster(rosters, func(r *models.Roster) bool {
			return strings.EqualFold(r.Team, p.Team)
		})
	}
	if p.Query != "" {
		rosters = filterByWords(rosters, p.Query)
	}
	if p.Shift != "" {
		rosters = filterRoster(rosters, func(r *models.Roster) bool {
			return strings.EqualFold(r.Schedule, p.Shift)
		})
	}

	sort.SliceStable(rosters, func(i, j int) bool {
		if !rosters[i].Date.Equal(rosters[j].Date) {
			return rosters[i].Date.Before(rosters[j].Date)
		}
		return rosters[i].Name < rosters[j].Name
	})

	attendances, err := s.attendance.InRange(start, end)
	if err != nil {
		return nil, err
	}
	attendanceMap := make(map[recordKey]*models.Attendance, len(attendances))
	for i := range attendances {
		attendanceMap[keyOf(attendances[i].Name, attendances[i].Date)] = &attendances[i]
	}

	rows := make([]SearchRow, 0, len(rosters))
	for i := range rosters {
		entry := &rosters[i]
		row := SearchRow{
			Name:     entry.Name,
			Team:     entry.Team,
			Date:     entry.Date.Format("2006-01-02"),
			Schedule: entry.Schedule,
		}
		if att, ok := attendanceMap[keyOf(entry.Name, entry.Date)]; ok {
			row.EmployeeID = &att.EmployeeID
			row.Attendance = AttendanceDetail{
				Department:       &att.Department,
				FirstIn:          att.FirstIn,
				LastOut:          att.LastOut,
				GrossTime:        att.GrossTime,
				OutOfOfficeTime:  att.OutOfOfficeTime,
				OutOfOfficeCount: att.OutOfOfficeCount,
				NetOfficeTime:    att.NetOfficeTime,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type recordKey struct {
	name string
	date string
}

func keyOf(name string, date time.Time) recordKey {
	return recordKey{name: name, date: date.Format("2006-01-02")}
}

// filterByWords keeps roster entries whose name contains every word of the
// query, case-insensitive.
func filterByWords(entries []models.Roster, query string) []models.Roster {
	words := strings.Fields(strings.ToLower(query))
	var out []models.Roster
	for _, entry := range entries {
		name := strings.ToLower(entry.Name)
		match := true
		for _, word := range words {
			if !strings.Contains(name, word) {
				match = false
				break
			}
		}
		if match {
			out = append(out, entry)
		}
	}
	return out
}

func filterRoster(entries []models.Roster, keep func(*models.Roster) bool) []models.Roster {
	var out []models.Roster
	for i := range entries {
		if keep(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}

func distinctNames(entries []models.Roster) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, entry := range entries {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		names = append(names, entry.Name)
	}
	return names
}
