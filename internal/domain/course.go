package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course — именованная группа, под которой лежат файлы каталога.
// Имя считается уникальным, но это проверяет приложение перед вставкой,
// констрейнта в БД нет.
type Course struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"index" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
