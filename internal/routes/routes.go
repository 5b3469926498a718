package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "attendance-reconciliation-backend/internal/handlers"
	"attendance-reconciliation-backend/internal/repository"
	"attendance-reconciliation-backend/internal/services/ingest"
	"attendance-reconciliation-backend/internal/services/matching"
	"attendance-reconciliation-backend/internal/services/query"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	rosterRepo := repository.NewRosterRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	batchRepo := repository.NewUploadBatchRepository(db)

	ingestService := ingest.NewService(rosterRepo, attendanceRepo, batchRepo, matching.NewEngine(nil))
	queryService := query.NewService(rosterRepo, attendanceRepo)

	uploadHandler := handler.NewUploadHandler(ingestService)
	queryHandler := handler.NewQueryHandler(queryService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.POST("/upload", uploadHandler.Upload)
	api.GET("/search", queryHandler.Search)
}
