package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"chapterquiz-server/ingestion"
	"chapterquiz-server/models"
	"chapterquiz-server/service"
)

// AdminDashboard renders record-set counts and the per-chapter summary.
// GET /admin/dashboard
func AdminDashboard(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := svc.Overview(c.Request.Context())
		if err != nil {
			log.Printf("Error building admin overview: %v", err)
			c.HTML(http.StatusInternalServerError, "admin_dashboard", gin.H{
				"Title": "Chapter Quiz Admin",
				"Error": "Failed to load record sets",
			})
			return
		}
		c.HTML(http.StatusOK, "admin_dashboard", gin.H{
			"Title":     "Chapter Quiz Admin",
			"Overview":  overview,
			"UserEmail": c.GetString("admin_email"),
		})
	}
}

// AdminChapters returns the all-chapter rollup without a user lookup.
// GET /admin/chapters
func AdminChapters(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.AllChapterData(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

// TriggerIngestion imports the pending submissions.csv of one chapter.
// POST /admin/ingest/:chapter
func TriggerIngestion(svc *service.Service, ingestionRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		chapter := c.Param("chapter")
		actor := c.GetString("admin_email")

		n, err := ingestion.ProcessChapterData(c.Request.Context(), svc, chapter, ingestionRoot)
		if err != nil {
			log.Printf("Manual ingestion by %s failed for %s: %v", actor, chapter, err)
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, ingestion.ErrInvalid):
				status = http.StatusBadRequest
			case errors.Is(err, os.ErrNotExist):
				status = http.StatusNotFound
			}
			svc.LogAdminEvent(c.Request.Context(), actor, service.EventIngestionFailed, chapter, fmt.Sprintf("Error: %v", err))
			c.JSON(status, models.ErrorResponse{Detail: fmt.Sprintf("Ingestion failed: %v", err)})
			return
		}
		log.Printf("Manual ingestion by %s imported %d submissions for %s", actor, n, chapter)
		svc.LogAdminEvent(c.Request.Context(), actor, service.EventIngestionSuccess, chapter, fmt.Sprintf("Imported %d submissions.", n))
		c.JSON(http.StatusOK, models.MessageResponse{Message: bulkMessage(n)})
	}
}
