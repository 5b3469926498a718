package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"attendance-reconciliation-backend/internal/models"
	"attendance-reconciliation-backend/internal/services/query"
)

type fixtureRosterStore struct {
	entries []models.Roster
}

func (s *fixtureRosterStore) InRange(start, end time.Time) ([]models.Roster, error) {
	var out []models.Roster
	for _, e := range s.entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fixtureAttendanceStore struct {
	entries []models.Attendance
}

func (s *fixtureAttendanceStore) LatestDate() (time.Time, bool, error) {
	var latest time.Time
	for _, e := range s.entries {
		if e.Date.After(latest) {
			latest = e.Date
		}
	}
	return latest, len(s.entries) > 0, nil
}

func (s *fixtureAttendanceStore) InRange(start, end time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, e := range s.entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fixtureAttendanceStore) LowHours(start, end time.Time, limit datatypes.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, e := range s.entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		if e.NetOfficeTime != nil && *e.NetOfficeTime < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fixtureAttendanceStore) NamesByEmployeeID(id string, start, end time.Time) ([]string, error) {
	var names []string
	for _, e := range s.entries {
		if strings.EqualFold(e.EmployeeID, id) && !e.Date.Before(start) && !e.Date.After(end) {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

func (s *fixtureAttendanceStore) EmployeeID(name string) (string, error) {
	for _, e := range s.entries {
		if e.Name == name {
			return e.EmployeeID, nil
		}
	}
	return "", nil
}

func newQueryRouter(rosters []models.Roster, attendance []models.Attendance) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := query.NewService(
		&fixtureRosterStore{entries: rosters},
		&fixtureAttendanceStore{entries: attendance},
	)
	r := gin.New()
	r.GET("/api/search", NewQueryHandler(service).Search)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func marchDay(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func queryFixtures() ([]models.Roster, []models.Attendance) {
	low := datatypes.NewTime(7, 30, 0, 0)
	rosters := []models.Roster{
		{Name: "John Doe", Date: marchDay(1), Team: "T1", Schedule: "WFO-M"},
		{Name: "John Doe", Date: marchDay(2), Team: "T1", Schedule: "PL"},
	}
	attendance := []models.Attendance{
		{Name: "John Doe", Date: marchDay(1), EmployeeID: "E001", NetOfficeTime: &low},
		{Name: "John Doe", Date: marchDay(2), EmployeeID: "E001", NetOfficeTime: &low},
	}
	return rosters, attendance
}

func TestQueryCountMissingFilterIsBadRequest(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?action=count")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "required")
}

func TestQueryCountUnknownIDIsNotFound(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?action=count&id=E404")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueryEmptyStoreIsNotFound(t *testing.T) {
	r := newQueryRouter(nil, nil)

	w := get(r, "/api/search")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no data")
}

func TestQueryCount(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?action=count&q=john")
	require.Equal(t, http.StatusOK, w.Code)

	var results []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(results[0]["counts"], &counts))
	assert.Equal(t, 1, counts["Total WFO"])
	assert.Equal(t, 1, counts["Total PL"])
	assert.Equal(t, 1, counts["Total working days"])
	assert.Equal(t, 1, counts["Total Leaves"])
}

func TestQueryLowHoursResponseShape(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?action=low_hours")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count     int               `json:"count"`
		Employees []json.RawMessage `json:"employees_with_low_hours"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Only March 1 qualifies; March 2 is a PL day.
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Employees, 1)
	assert.Contains(t, string(body.Employees[0]), "\"shift\":\"WFO-M\"")
}

func TestQueryNonPLLowHoursResponseShape(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?action=non_pl_low_hours")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count     int               `json:"count"`
		Employees []json.RawMessage `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestQueryDefaultActionSearch(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?teamname=t1")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		Name       string  `json:"name"`
		EmployeeID *string `json:"employee_id"`
		Schedule   string  `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "John Doe", rows[0].Name)
	require.NotNil(t, rows[0].EmployeeID)
	assert.Equal(t, "E001", *rows[0].EmployeeID)
}

func TestQueryInvalidDateIsBadRequest(t *testing.T) {
	r := newQueryRouter(queryFixtures())

	w := get(r, "/api/search?start_date=whenever")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
