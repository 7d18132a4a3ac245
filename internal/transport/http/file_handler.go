package handlers

import (
	"fmt"
	"log"
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/parser"
	"coursehub/internal/infrastructure/repository"
	"coursehub/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileHandler struct {
	files   *repository.FileRepository
	courses *repository.CourseRepository
	store   *storage.LocalStore
}

func NewFileHandler(files *repository.FileRepository, courses *repository.CourseRepository, store *storage.LocalStore) *FileHandler {
	return &FileHandler{
		files:   files,
		courses: courses,
		store:   store,
	}
}

type addFileReq struct {
	Title  string `json:"title" binding:"required"`
	URL    string `json:"url" binding:"required"`
	Course string `json:"course" binding:"required"`
}

type importFolderReq struct {
	Course string `json:"course" binding:"required"`
	URL    string `json:"url" binding:"required"`
}

// GET /files/:course
// gin сам декодирует параметр пути, матчим имя курса как есть.
func (h *FileHandler) ListByCourse(c *gin.Context) {
	course := c.Param("course")

	files, err := h.files.ListByCourse(c, course)
	if err != nil {
		log.Printf("list files of %q failed: %v", course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if files == nil {
		files = []domain.File{}
	}
	c.JSON(http.StatusOK, files)
}

// POST /admin/add-file
func (h *FileHandler) Create(c *gin.Context) {
	var req addFileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, url and course are required"})
		return
	}

	// Курса нет — заводим молча, чтобы файл не повис без владельца
	if _, err := h.courses.FindOrCreate(c, req.Course); err != nil {
		log.Printf("find-or-create course %q failed: %v", req.Course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	file := &domain.File{
		ID:     uuid.New(),
		Title:  req.Title,
		URL:    req.URL,
		Course: req.Course,
	}
	if err := h.files.Create(c, file); err != nil {
		log.Printf("create file %q failed: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file added"})
}

// POST /admin/upload-file (multipart: title, course, file)
func (h *FileHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	course := c.PostForm("course")
	if title == "" || course == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and course are required"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		log.Printf("open uploaded file failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer src.Close()

	url, err := h.store.Save(src, header.Filename)
	if err != nil {
		log.Printf("store uploaded file failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if _, err := h.courses.FindOrCreate(c, course); err != nil {
		log.Printf("find-or-create course %q failed: %v", course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	file := &domain.File{
		ID:     uuid.New(),
		Title:  title,
		URL:    url,
		Course: course,
	}
	if err := h.files.Create(c, file); err != nil {
		log.Printf("create file record %q failed: %v", title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file uploaded"})
}

// POST /admin/import-folder
// Обходим публичную папку облака и заводим запись на каждый файл в ней.
func (h *FileHandler) ImportFolder(c *gin.Context) {
	var req importFolderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course and url are required"})
		return
	}

	dtos, err := parser.ParseFolder(req.URL)
	if err != nil {
		log.Printf("parse folder %q failed: %v", req.URL, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse folder link"})
		return
	}

	if _, err := h.courses.FindOrCreate(c, req.Course); err != nil {
		log.Printf("find-or-create course %q failed: %v", req.Course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	files := make([]domain.File, 0, len(dtos))
	for _, dto := range dtos {
		files = append(files, domain.File{
			ID:     uuid.New(),
			Title:  dto.Title,
			URL:    dto.URL,
			Course: req.Course,
		})
	}
	if err := h.files.CreateBatch(c, files); err != nil {
		log.Printf("import into %q failed: %v", req.Course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("imported %d files", len(files))})
}

// DELETE /admin/delete-file/:id
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	file, err := h.files.GetByID(c, id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if err != nil {
		log.Printf("get file %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	// Локальный объект подчищаем лучшим усилием: неудача уходит в лог,
	// запись удаляем в любом случае
	if h.store.Owns(file.URL) {
		if removed, err := h.store.Remove(file.URL); err != nil {
			log.Printf("remove object %s failed: %v", file.URL, err)
		} else if !removed {
			log.Printf("object %s already gone", file.URL)
		}
	}

	if err := h.files.Delete(c, file); err != nil {
		log.Printf("delete file %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
