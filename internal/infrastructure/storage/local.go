package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
)

// PublicPrefix — под этим путем роутер раздает каталог загрузок.
const PublicPrefix = "/uploads/"

// LocalStore хранит загруженные бинарники в обычной директории на диске.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Dir() string {
	return s.root
}

// Save пишет содержимое под уникальным ключом и возвращает публичный путь
// (его и кладем в File.URL). Наносекундный префикс гарантирует, что два
// файла с одинаковым именем не перетрут друг друга.
func (s *LocalStore) Save(r io.Reader, originalName string) (string, error) {
	key := fmt.Sprintf("%d_%s", nextStamp(), sanitizeName(originalName))

	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write object: %w", err)
	}

	return PublicPrefix + key, nil
}

// Owns — наш ли это объект, или внешняя ссылка.
func (s *LocalStore) Owns(url string) bool {
	return strings.HasPrefix(url, PublicPrefix)
}

// Remove удаляет объект по публичному пути. Отсутствующий объект — не ошибка:
// возвращаем removed=false и nil.
func (s *LocalStore) Remove(url string) (bool, error) {
	key := filepath.Base(strings.TrimPrefix(url, PublicPrefix))
	err := os.Remove(filepath.Join(s.root, key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var lastStamp atomic.Int64

// nextStamp — строго возрастающее значение на базе UnixNano. Два вызова подряд
// никогда не совпадут, даже если часы не успели тикнуть.
func nextStamp() int64 {
	for {
		now := time.Now().UnixNano()
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

// sanitizeName выкидывает пробельные символы и срезает путь до базового имени,
// чтобы в ключ не попало ничего вида "../".
func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, base)
	if clean == "" || clean == "." || clean == ".." {
		return "file"
	}
	return clean
}
