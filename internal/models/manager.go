package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lightwhisper/internal/events"
)

// Manager скачивает и проверяет файлы моделей.
//
// Одновременно активна максимум одна загрузка: новый запрос сначала
// отменяет текущую. Файлы пишутся во временную директорию и попадают
// в директорию моделей только после успешной загрузки всего набора -
// неполная модель никогда не выглядит установленной.
type Manager struct {
	modelsDir string
	tempDir   string
	bus       *events.Bus
	client    *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager создаёт менеджер моделей.
func NewManager(modelsDir, tempDir string, bus *events.Bus) *Manager {
	return &Manager{
		modelsDir: modelsDir,
		tempDir:   tempDir,
		bus:       bus,
		client:    http.DefaultClient,
	}
}

// ModelsDir возвращает путь к директории моделей.
func (m *Manager) ModelsDir() string {
	return m.modelsDir
}

// FilePath возвращает путь установки файла модели.
func (m *Manager) FilePath(d Descriptor, f FileSpec) string {
	return filepath.Join(m.modelsDir, d.Dir, filepath.FromSlash(f.Name))
}

// InstallPath возвращает путь, который передаётся движку при загрузке.
func (m *Manager) InstallPath(d Descriptor) string {
	return InstallPath(m.modelsDir, d)
}

// Exists проверяет что все файлы модели на месте.
func (m *Manager) Exists(d Descriptor) bool {
	for _, f := range d.Files {
		if !m.fileOK(d, f) {
			return false
		}
	}
	return true
}

// fileOK: файлы попадают в директорию моделей только rename-ом после
// проверенной передачи, поэтому непустой файл считается целым.
// Размеры каталога приблизительные, по ним сравнивать нельзя.
func (m *Manager) fileOK(d Descriptor, f FileSpec) bool {
	stat, err := os.Stat(m.FilePath(d, f))
	return err == nil && stat.Size() > 0
}

// Download запускает загрузку модели в фоне, предварительно отменив
// текущую (если есть). Прогресс уходит событиями в шину.
// Возвращённый канал закрывается по окончании работы.
func (m *Manager) Download(d Descriptor) <-chan struct{} {
	m.cancelActive()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.mu.Lock()
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		m.run(ctx, d)
	}()

	return done
}

// Cancel отменяет активную загрузку и дожидается её завершения.
func (m *Manager) Cancel() {
	m.cancelActive()
}

func (m *Manager) cancelActive() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// run скачивает недостающие файлы дескриптора по порядку.
func (m *Manager) run(ctx context.Context, d Descriptor) {
	// Уже установленные файлы пропускаем - повторный вызов для
	// готовой модели не качает ничего.
	var missing []int
	var total int64
	for i, f := range d.Files {
		if m.fileOK(d, f) {
			continue
		}
		missing = append(missing, i)
		total += f.Size
	}

	if len(missing) == 0 {
		m.bus.DownloadComplete()
		return
	}

	staged := make(map[int]string, len(missing))
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	var transferred int64
	for _, i := range missing {
		f := d.Files[i]
		m.bus.DownloadFileInfo(i+1, len(d.Files), f.Name)

		tmp := filepath.Join(m.tempDir, strings.ReplaceAll(f.Name, "/", "-")+".part")
		if _, err := m.fetch(ctx, f, tmp, &transferred, total); err != nil {
			os.Remove(tmp)
			discard()
			if ctx.Err() != nil {
				// Отмена - не ошибка, loop нового запроса её заместил
				return
			}
			m.bus.DownloadError(err.Error())
			return
		}

		staged[i] = tmp
	}

	// Весь набор скачан - атомарно перемещаем в директорию моделей
	for i, tmp := range staged {
		dest := m.FilePath(d, d.Files[i])
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			discard()
			m.bus.DownloadError(err.Error())
			return
		}
		if err := os.Rename(tmp, dest); err != nil {
			discard()
			m.bus.DownloadError(err.Error())
			return
		}
		delete(staged, i)
	}

	m.bus.DownloadComplete()
}

// fetch скачивает один файл во временный путь, отдавая прогресс
// после каждого чанка. Отмена проверяется между чанками.
// Целостность проверяется по Content-Length ответа (если сервер его
// прислал) - размеры каталога для этого слишком приблизительны.
func (m *Manager) fetch(ctx context.Context, f FileSpec, tmp string, transferred *int64, total int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ошибка скачивания %s: %w", f.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP ошибка при скачивании %s: %s", f.Name, resp.Status)
	}

	file, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var written int64
	buf := make([]byte, 32*1024)

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			*transferred += int64(n)

			percent := 0.0
			if total > 0 {
				percent = float64(*transferred) / float64(total) * 100.0
			}
			if percent > 100 {
				percent = 100
			}
			m.bus.DownloadProgress(
				percent,
				float64(*transferred)/1048576.0,
				float64(total)/1048576.0,
			)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("ошибка скачивания %s: %w", f.Name, err)
		}
	}

	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return written, fmt.Errorf(
			"размер файла %s не совпадает: получено %d, ожидалось %d байт", f.Name, written, resp.ContentLength)
	}

	if err := file.Sync(); err != nil {
		return written, err
	}
	return written, nil
}
