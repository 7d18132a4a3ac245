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

const filesListPrefix = "files:list:"

type FileRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewFileRepository(db *gorm.DB, rdb *redis.Client) *FileRepository {
	return &FileRepository{db: db, rdb: rdb}
}

// === КЕШИРУЕМ СПИСОК ФАЙЛОВ КУРСА ===
// Матчим по имени курса строго: регистр и байты должны совпасть.
func (r *FileRepository) ListByCourse(ctx context.Context, course string) ([]domain.File, error) {
	key := filesListPrefix + course

	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, key).Result()
		if err == nil {
			var files []domain.File
			if json.Unmarshal([]byte(val), &files) == nil {
				return files, nil
			}
		}
	}

	var files []domain.File
	if err := r.db.WithContext(ctx).Find(&files, "course = ?", course).Error; err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if data, err := json.Marshal(files); err == nil {
			r.rdb.Set(ctx, key, data, 5*time.Minute)
		}
	}

	return files, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) Create(ctx context.Context, f *domain.File) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return err
	}
	r.invalidateList(ctx, f.Course)
	return nil
}

// CreateBatch — вставка пачкой (для импорта папки).
func (r *FileRepository) CreateBatch(ctx context.Context, files []domain.File) error {
	if len(files) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&files).Error; err != nil {
		return err
	}
	r.invalidateList(ctx, files[0].Course)
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, f *domain.File) error {
	if err := r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", f.ID).Error; err != nil {
		return err
	}
	r.invalidateList(ctx, f.Course)
	return nil
}

func (r *FileRepository) invalidateList(ctx context.Context, course string) {
	if r.rdb != nil {
		r.rdb.Del(ctx, filesListPrefix+course)
	}
}
