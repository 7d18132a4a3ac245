package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Вынесено в переменную, чтобы тесты могли подставить свой сервер.
var apiBase = "https://cloud.mail.ru/api/v2/folder"

type mailRuResponse struct {
	Body struct {
		List []struct {
			Name string `json:"name"`
			Type string `json:"type"` // video, image, file, folder
			Kind string `json:"kind"` // file, folder
		} `json:"list"`
	} `json:"body"`
}

type FileDTO struct {
	Title string
	URL   string
}

// ParseFolder обходит публичную папку cloud.mail.ru и возвращает список
// файлов для каталога: заголовок без расширения + прямая ссылка.
func ParseFolder(publicLink string) ([]FileDTO, error) {
	// 1. Извлекаем weblink
	parts := strings.Split(publicLink, "/public/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid mail.ru link")
	}
	weblink := parts[1]

	// 2. Запрос к API
	apiURL := fmt.Sprintf("%s?weblink=%s", apiBase, weblink)
	req, err := http.NewRequest("GET", apiURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "*/*")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[PARSER] network error: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("mail.ru api returned status: %d", resp.StatusCode)
	}

	// 3. Декодируем
	var mrResp mailRuResponse
	if err := json.Unmarshal(bodyBytes, &mrResp); err != nil {
		log.Printf("[PARSER] json decode failed: %v", err)
		return nil, err
	}

	var files []FileDTO
	cleanBaseLink := strings.TrimRight(publicLink, "/")

	// 4. Фильтрация: папки пропускаем, берем только файлы
	for _, item := range mrResp.Body.List {
		isTargetFile := item.Kind == "file" || item.Type == "video" || item.Type == "file"
		if !isTargetFile {
			continue
		}

		fullLink := fmt.Sprintf("%s/%s", cleanBaseLink, item.Name)
		title := item.Name
		if idx := strings.LastIndex(title, "."); idx != -1 {
			title = title[:idx]
		}

		files = append(files, FileDTO{
			Title: title,
			URL:   fullLink,
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("0 files found in folder")
	}

	return files, nil
}
