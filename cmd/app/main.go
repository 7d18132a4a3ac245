package main

import (
	"context"
	"fmt"
	"log"

	"coursehub/config"
	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/repository"
	"coursehub/internal/infrastructure/storage"
	"coursehub/internal/middleware"
	handlers "coursehub/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. Конфиг
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Подключение к БД
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// 3. Миграции
	log.Println("Running migrations...")
	if err := db.AutoMigrate(&domain.Course{}, &domain.File{}); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// 4. Redis: кеш и лимитер. Недоступен — работаем без него, каталог
	// обязан подниматься и в одиночку
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable at %s, running without cache: %v", cfg.RedisAddr, err)
		rdb = nil
	} else {
		log.Println("Connected to Redis at", cfg.RedisAddr)
	}

	// 5. Директория загрузок
	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init upload dir: %v", err)
	}

	// 6. Инициализация слоев
	courseRepo := repository.NewCourseRepository(db, rdb)
	fileRepo := repository.NewFileRepository(db, rdb)

	courseHandler := handlers.NewCourseHandler(courseRepo, fileRepo, store)
	fileHandler := handlers.NewFileHandler(fileRepo, courseRepo, store)
	limiter := middleware.NewRateLimiter(rdb)

	router := handlers.NewRouter(courseHandler, fileHandler, limiter, store.Dir(), cfg.AllowedOrigins)

	// 7. Запуск HTTP сервера
	log.Printf("Course catalog running on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
