package repository

import (
	"context"
	"fmt"
	"testing"

	"coursehub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Отдельная in-memory база на каждый тест. cache=shared обязателен: gorm
// держит пул соединений, а без shared каждое соединение видит свою пустую БД.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Course{}, &domain.File{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCourseCreateAndList(t *testing.T) {
	repo := NewCourseRepository(newTestDB(t), nil)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Course{ID: uuid.New(), Name: "Math"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &domain.Course{ID: uuid.New(), Name: "Physics"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	courses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
}

func TestCourseGetByName(t *testing.T) {
	repo := NewCourseRepository(newTestDB(t), nil)
	ctx := context.Background()

	created := &domain.Course{ID: uuid.New(), Name: "Math"}
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByName(ctx, "Math")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByName returned id %s, want %s", got.ID, created.ID)
	}

	// Регистр имеет значение
	if _, err := repo.GetByName(ctx, "math"); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound for different case, got %v", err)
	}
}

func TestCourseFindOrCreate(t *testing.T) {
	repo := NewCourseRepository(newTestDB(t), nil)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "Math")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}

	second, err := repo.FindOrCreate(ctx, "Math")
	if err != nil {
		t.Fatalf("second FindOrCreate: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("FindOrCreate created a duplicate: %s vs %s", first.ID, second.ID)
	}

	courses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 1 {
		t.Errorf("expected 1 course, got %d", len(courses))
	}
}

func TestCourseDelete(t *testing.T) {
	repo := NewCourseRepository(newTestDB(t), nil)
	ctx := context.Background()

	course := &domain.Course{ID: uuid.New(), Name: "Math"}
	if err := repo.Create(ctx, course); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, course.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, course.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestFileListByCourseExactMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepository(db, nil)
	ctx := context.Background()

	seed := []domain.File{
		{ID: uuid.New(), Title: "Syllabus", URL: "http://example.com/a.pdf", Course: "Math"},
		{ID: uuid.New(), Title: "Homework", URL: "/uploads/1_hw.pdf", Course: "Math"},
		{ID: uuid.New(), Title: "Lab", URL: "http://example.com/lab.pdf", Course: "Physics"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	files, err := repo.ListByCourse(ctx, "Math")
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files for Math, got %d", len(files))
	}
	for _, f := range files {
		if f.Course != "Math" {
			t.Errorf("file %q belongs to %q, not Math", f.Title, f.Course)
		}
	}

	// Неизвестный курс — пустой список, не ошибка
	files, err = repo.ListByCourse(ctx, "History")
	if err != nil {
		t.Fatalf("ListByCourse unknown: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files for unknown course, got %d", len(files))
	}
}

func TestFileCreateBatchAndDelete(t *testing.T) {
	repo := NewFileRepository(newTestDB(t), nil)
	ctx := context.Background()

	batch := []domain.File{
		{ID: uuid.New(), Title: "Part 1", URL: "https://cloud.mail.ru/public/x/1", Course: "Go"},
		{ID: uuid.New(), Title: "Part 2", URL: "https://cloud.mail.ru/public/x/2", Course: "Go"},
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	files, err := repo.ListByCourse(ctx, "Go")
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	if err := repo.Delete(ctx, &files[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, files[0].ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}
}
