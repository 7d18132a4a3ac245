package handlers

import (
	"strings"
	"time"

	"coursehub/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(courseHandler *CourseHandler, fileHandler *FileHandler, limiter *middleware.RateLimiter, uploadDir, allowedOrigins string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowedOrigins, ",")
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Публичное чтение
	r.GET("/courses", courseHandler.List)
	r.GET("/files/:course", fileHandler.ListByCourse)

	// Загруженные объекты раздаем напрямую, мимо реестра
	r.Static("/uploads", uploadDir)

	admin := r.Group("/admin")
	admin.Use(limiter.Limit("admin", 60, 1*time.Minute))
	{
		admin.POST("/add-course", courseHandler.Create)
		admin.POST("/add-file", fileHandler.Create)
		admin.POST("/upload-file", fileHandler.Upload)
		admin.POST("/import-folder", fileHandler.ImportFolder)
		admin.DELETE("/delete-file/:id", fileHandler.Delete)
		admin.DELETE("/delete-course/:id", courseHandler.Delete)
	}

	return r
}
