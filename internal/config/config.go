// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Data - сохраняемые настройки приложения.
type Data struct {
	AudioDevice string `json:"audio_device"`
	Engine      string `json:"engine"`
	ModelSize   string `json:"model_size"`
	Language    string `json:"language"`
	Shortcut    string `json:"shortcut"`
}

// Default возвращает настройки по умолчанию.
func Default() Data {
	return Data{
		AudioDevice: "default",
		Engine:      "whisper",
		ModelSize:   "base",
		Language:    "auto", // auto для смешанной речи
		Shortcut:    "ctrl+shift+space",
	}
}

// Config хранит настройки приложения.
type Config struct {
	mu   sync.RWMutex
	data Data
	path string
}

// New создаёт конфигурацию, загружая из файла или с настройками по умолчанию.
func New() *Config {
	c := &Config{
		data: Default(),
		path: Path(),
	}
	c.load()
	return c
}

// NewAt создаёт конфигурацию с явным путём к файлу (для тестов).
func NewAt(path string) *Config {
	c := &Config{
		data: Default(),
		path: path,
	}
	c.load()
	return c
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return // Файла нет - используем defaults
	}

	data := Default()
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}
	c.data = data
}

// Save сохраняет конфигурацию в файл. Единственная операция записи на диск.
func (c *Config) Save() error {
	c.mu.RLock()
	data := c.data
	c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию конфигурации: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0644)
}

// Snapshot возвращает копию текущих настроек.
func (c *Config) Snapshot() Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Replace заменяет настройки целиком, кроме горячей клавиши -
// у неё отдельный путь изменения через SetShortcut.
func (c *Config) Replace(data Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data.Shortcut = c.data.Shortcut
	c.data = data
}

// SetShortcut устанавливает горячую клавишу.
func (c *Config) SetShortcut(shortcut string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Shortcut = shortcut
}

// Dir возвращает директорию данных приложения.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lightwhisper"
	}
	return filepath.Join(home, "lightwhisper")
}

// Path возвращает путь к файлу конфигурации.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// ModelsDir возвращает директорию моделей.
func ModelsDir() string {
	return filepath.Join(Dir(), "models")
}

// TempDir возвращает директорию временных файлов.
func TempDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.TempDir(), "lightwhisper")
	}
	return filepath.Join(Dir(), "temp")
}

// EnsureDirs создаёт все рабочие директории.
func EnsureDirs() error {
	for _, dir := range []string{Dir(), ModelsDir(), TempDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
		}
	}
	return nil
}

// CleanTemp очищает директорию временных файлов (вызывается при завершении).
func CleanTemp() {
	entries, err := os.ReadDir(TempDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		os.RemoveAll(filepath.Join(TempDir(), e.Name()))
	}
}
