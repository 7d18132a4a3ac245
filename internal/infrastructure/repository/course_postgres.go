package repository

import (
	"context"
	"encoding/json"
	"time"

	"coursehub/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const coursesListKey = "courses:list"

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// rdb может быть nil — тогда работаем без кеша (так живут тесты).
func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

// === КЕШИРУЕМ СПИСОК КУРСОВ ===
func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	// 1. Читаем из кеша
	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, coursesListKey).Result()
		if err == nil {
			var courses []domain.Course
			if json.Unmarshal([]byte(val), &courses) == nil {
				return courses, nil
			}
		}
	}

	// 2. Читаем из БД (если нет в кеше). Без сортировки: отдаем как лежит.
	var courses []domain.Course
	if err := r.db.WithContext(ctx).Find(&courses).Error; err != nil {
		return nil, err
	}

	// 3. Пишем в кеш (ненадолго, курсы меняются редко)
	if r.rdb != nil {
		if data, err := json.Marshal(courses); err == nil {
			r.rdb.Set(ctx, coursesListKey, data, 5*time.Minute)
		}
	}

	return courses, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByName — точное совпадение имени (байт в байт, с учетом регистра).
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindOrCreate — ищем курс по имени, нет — заводим. Так add-file может
// ссылаться на еще не созданный курс. Проверка и вставка не атомарны:
// гонка двух одновременных запросов даст дубль, это известное поведение.
func (r *CourseRepository) FindOrCreate(ctx context.Context, name string) (*domain.Course, error) {
	course, err := r.GetByName(ctx, name)
	if err == nil {
		return course, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	course = &domain.Course{ID: uuid.New(), Name: name}
	if err := r.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	r.invalidateList(ctx)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Course{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.invalidateList(ctx)
	return nil
}

func (r *CourseRepository) invalidateList(ctx context.Context) {
	if r.rdb != nil {
		r.rdb.Del(ctx, coursesListKey)
	}
}
