package handlers

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chapterquiz-server/middleware"
	"chapterquiz-server/service"
)

// RouterConfig holds what the HTTP layer needs besides the service.
type RouterConfig struct {
	CORSOrigins     []string
	AdminSigningKey string // empty disables /admin
	AdminIssuer     string
	IngestionRoot   string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *service.Service, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
			AllowCredentials: true,
		}))
	}

	// Admin UI templates
	renderer := multitemplate.NewRenderer()
	renderer.AddFromString("admin_dashboard", adminDashboardTemplate)
	router.HTMLRender = renderer

	router.GET("/", Root())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/signup", Signup(svc))
	router.POST("/signin", Signin(svc))
	router.POST("/api/signin", Signin(svc))
	router.POST("/upload", UploadQuiz(svc))
	router.POST("/bulk-upload", BulkUpload(svc))
	router.POST("/check-mail", CheckMail(svc))
	router.POST("/email-data", EmailData(svc))
	router.POST("/send-otp", SendOTP(svc))
	router.POST("/send-pdf", SendPDF(svc))
	router.POST("/update-observation", UpdateObservation(svc))
	router.POST("/chapter-data", ChapterData(svc))

	if cfg.AdminSigningKey == "" {
		log.Println("ADMIN.JWT_SIGNING_KEY not set, admin routes disabled")
		return router
	}
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.AdminSigningKey, cfg.AdminIssuer))
	admin.Use(middleware.RoleCheckMiddleware([]string{"admin"}))
	{
		admin.GET("/dashboard", AdminDashboard(svc))
		admin.GET("/chapters", AdminChapters(svc))
		admin.POST("/ingest/:chapter", TriggerIngestion(svc, cfg.IngestionRoot))
	}
	return router
}
