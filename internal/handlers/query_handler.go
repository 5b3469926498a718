package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-reconciliation-backend/internal/services/query"
)

type QueryHandler struct {
	service *query.Service
}

func NewQueryHandler(s *query.Service) *QueryHandler {
	return &QueryHandler{service: s}
}

// Search dispatches on the action parameter; the default action is the
// filtered roster search.
func (h *QueryHandler) Search(c *gin.Context) {
	p := query.Params{
		Query:      c.Query("q"),
		EmployeeID: c.Query("id"),
		Team:       c.Query("teamname"),
		Shift:      c.Query("shift"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}

	switch c.Query("action") {
	case "count":
		results, err := h.service.Count(p)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	case "low_hours":
		entries, err := h.service.LowHours(p)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"count":                    len(entries),
			"employees_with_low_hours": entries,
		})
	case "non_pl_low_hours":
		entries, err := h.service.NonPLLowHours(p)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"count":     len(entries),
			"employees": entries,
		})
	default:
		rows, err := h.service.Search(p)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (h *QueryHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrMissingFilter), errors.Is(err, query.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, query.ErrNoData), errors.Is(err, query.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
