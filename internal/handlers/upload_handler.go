package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-reconciliation-backend/internal/services/ingest"
	"attendance-reconciliation-backend/internal/spreadsheet"
)

type UploadHandler struct {
	service *ingest.Service
}

func NewUploadHandler(s *ingest.Service) *UploadHandler {
	return &UploadHandler{service: s}
}

// Upload ingests the monthly roster workbook and the daily attendance
// export in one request. Both files are required and processing is
// synchronous; rows written before a failure stay written.
func (h *UploadHandler) Upload(c *gin.Context) {
	rosterFile, rosterHeader, err := c.Request.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `please upload both "roster" and "attendance" files`})
		return
	}
	defer rosterFile.Close()

	attendanceFile, attendanceHeader, err := c.Request.FormFile("attendance")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `please upload both "roster" and "attendance" files`})
		return
	}
	defer attendanceFile.Close()

	log.Println("Received roster:", rosterHeader.Filename, "attendance:", attendanceHeader.Filename)

	rosterRows, err := spreadsheet.ReadRows(rosterHeader.Filename, rosterFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("an error occurred: %s", err)})
		return
	}
	attendanceRows, err := spreadsheet.ReadRows(attendanceHeader.Filename, attendanceFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("an error occurred: %s", err)})
		return
	}

	summary, err := h.service.ProcessUpload(rosterHeader.Filename, attendanceHeader.Filename, rosterRows, attendanceRows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("an error occurred: %s", err)})
		return
	}

	period := time.Date(summary.Year, summary.Month, 1, 0, 0, 0, 0, time.UTC)
	c.JSON(http.StatusCreated, gin.H{
		"message":            fmt.Sprintf("Files processed successfully for %s. Only matched records were saved.", period.Format("January 2006")),
		"roster_records":     summary.RosterRecords,
		"attendance_records": summary.AttendanceRecords,
		"matched_names":      summary.MatchedNames,
		"dropped_names":      summary.DroppedNames,
	})
}
