package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
	"github.com/golang/snappy"
	"github.com/google/uuid"
)

// Downloader отвечает за скачивание снапшота арендных контрактов из открытых данных DLD
type Downloader struct {
	url           string
	timeout       time.Duration
	maxRetries    int
	backoffFactor int
	logger        *utils.ETLLogger
	client        *http.Client
}

// NewDownloader создает новый экземпляр Downloader
func NewDownloader(cfg config.ETLConfig, logger *utils.ETLLogger) *Downloader {
	return &Downloader{
		url:           cfg.SourceURL,
		timeout:       cfg.RequestTimeout,
		maxRetries:    cfg.MaxRetries,
		backoffFactor: cfg.BackoffFactor,
		logger:        logger,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Download скачивает снапшот и сохраняет его в destination в сжатом виде (snappy).
// При ошибках сети выполняются повторы с экспоненциальной задержкой.
func (d *Downloader) Download(ctx context.Context, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога снапшотов: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		d.logger.Info("Скачивание снапшота с %s (попытка %d/%d)", d.url, attempt, d.maxRetries)

		written, err := d.fetchToFile(ctx, destination)
		if err == nil {
			d.logger.Info("Снапшот успешно скачан и сохранен в %s (%d байт до сжатия)", destination, written)
			return nil
		}

		lastErr = err
		d.logger.Error("Ошибка при скачивании снапшота (попытка %d): %v", attempt, err)

		if attempt < d.maxRetries {
			// Экспоненциальная задержка перед повтором
			wait := time.Duration(pow(d.backoffFactor, attempt-1)) * time.Second
			d.logger.Info("Повтор через %v...", wait)

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return fmt.Errorf("скачивание прервано: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("не удалось скачать снапшот после %d попыток: %w", d.maxRetries, lastErr)
}

// fetchToFile выполняет один HTTP-запрос и записывает тело ответа во временный
// файл со сжатием, после чего атомарно переименовывает его в destination
func (d *Downloader) fetchToFile(ctx context.Context, destination string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка при формировании запроса: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("неожиданный статус ответа: %s", resp.Status)
	}

	// Пишем во временный файл, чтобы не повредить предыдущий снапшот
	tmpPath := filepath.Join(filepath.Dir(destination), fmt.Sprintf(".download-%s", uuid.New().String()))
	file, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании временного файла: %w", err)
	}

	writer := snappy.NewBufferedWriter(file)
	written, err := io.Copy(writer, resp.Body)
	if err != nil {
		writer.Close()
		file.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка при сохранении снапшота: %w", err)
	}

	if err := writer.Close(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка при завершении сжатия: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка при закрытии файла: %w", err)
	}

	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("ошибка при переименовании снапшота: %w", err)
	}

	return written, nil
}

// pow возвращает base в степени exp для расчета задержки между повторами
func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
