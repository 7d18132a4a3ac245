package handlers

import (
	"log"
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/repository"
	"coursehub/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseHandler struct {
	courses *repository.CourseRepository
	files   *repository.FileRepository
	store   *storage.LocalStore
}

func NewCourseHandler(courses *repository.CourseRepository, files *repository.FileRepository, store *storage.LocalStore) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		files:   files,
		store:   store,
	}
}

type addCourseReq struct {
	Name string `json:"name" binding:"required"`
}

// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c)
	if err != nil {
		log.Printf("list courses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

// POST /admin/add-course
func (h *CourseHandler) Create(c *gin.Context) {
	var req addCourseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	// Проверяем дубль по точному имени. Проверка и вставка не в одной
	// транзакции, гонка возможна.
	_, err := h.courses.GetByName(c, req.Name)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course already exists"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("check course %q failed: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	course := &domain.Course{ID: uuid.New(), Name: req.Name}
	if err := h.courses.Create(c, course); err != nil {
		log.Printf("create course %q failed: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course created"})
}

// DELETE /admin/delete-course/:id
// Каскад не атомарный: сначала файлы курса (вместе с локальными объектами),
// потом сам курс. Упали посередине — часть файлов уже удалена, отката нет.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	course, err := h.courses.GetByID(c, id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	if err != nil {
		log.Printf("get course %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	files, err := h.files.ListByCourse(c, course.Name)
	if err != nil {
		log.Printf("list files of %q failed: %v", course.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	for i := range files {
		f := &files[i]
		if h.store.Owns(f.URL) {
			if removed, err := h.store.Remove(f.URL); err != nil {
				// Не смогли убрать объект — жалуемся в лог и идем дальше,
				// запись все равно удаляем
				log.Printf("remove object %s failed: %v", f.URL, err)
			} else if !removed {
				log.Printf("object %s already gone", f.URL)
			}
		}
		if err := h.files.Delete(c, f); err != nil {
			log.Printf("delete file %s failed: %v", f.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
	}

	if err := h.courses.Delete(c, course.ID); err != nil {
		log.Printf("delete course %s failed: %v", course.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}
