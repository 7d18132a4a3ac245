package domain

import (
	"time"

	"github.com/google/uuid"
)

// File — запись о материале: URL либо указывает на локальный объект
// (/uploads/...), либо это внешняя ссылка.
type File struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`

	// Имя курса-владельца (денормализация: храним имя, а не id)
	Course string `gorm:"index" json:"course"`

	CreatedAt time.Time `json:"created_at"`
}
