package speech

import (
	"fmt"
	"sync"

	"lightwhisper/internal/models"
)

// Factory управляет загруженным распознавателем.
//
// Загрузка ленивая: смена движка/размера в конфигурации лишь помечает
// текущий распознаватель устаревшим, реальная перезагрузка модели
// происходит при следующем обращении через Current.
type Factory struct {
	manager *models.Manager

	mu           sync.Mutex
	current      Recognizer
	loadedEngine models.Engine
	loadedSize   string
	wantEngine   models.Engine
	wantSize     string

	// create подменяется в тестах
	create func(engine models.Engine, size string) (Recognizer, error)
}

// NewFactory создаёт фабрику распознавателей.
func NewFactory(manager *models.Manager) *Factory {
	f := &Factory{manager: manager}
	f.create = f.load
	return f
}

// Configure задаёт желаемый движок и размер модели.
// Несовпадение с загруженным делает распознаватель устаревшим.
func (f *Factory) Configure(engine models.Engine, size string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wantEngine = engine
	f.wantSize = size
}

// Current возвращает распознаватель для текущей конфигурации,
// перезагружая модель если конфигурация изменилась.
func (f *Factory) Current() (Recognizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil && f.loadedEngine == f.wantEngine && f.loadedSize == f.wantSize {
		return f.current, nil
	}

	rec, err := f.create(f.wantEngine, f.wantSize)
	if err != nil {
		return nil, err
	}

	if f.current != nil {
		f.current.Close()
	}
	f.current = rec
	f.loadedEngine = f.wantEngine
	f.loadedSize = f.wantSize
	return rec, nil
}

// load создаёт распознаватель для движка и размера модели.
func (f *Factory) load(engine models.Engine, size string) (Recognizer, error) {
	desc, ok := models.Lookup(engine, size)
	if !ok {
		return nil, fmt.Errorf("неизвестный движок: %s", engine)
	}

	if !f.manager.Exists(desc) {
		return nil, fmt.Errorf("модель не скачана: %s %s", engine, size)
	}

	path := f.manager.InstallPath(desc)

	switch engine {
	case models.EngineWhisper:
		return NewWhisper(path)
	case models.EngineVosk:
		return NewVosk(path)
	default:
		return nil, fmt.Errorf("неизвестный движок: %s", engine)
	}
}

// IsLoaded проверяет, загружена ли модель.
func (f *Factory) IsLoaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}

// Close закрывает текущий распознаватель.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.current.Close()
		f.current = nil
	}
}
