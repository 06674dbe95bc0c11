// Package app содержит основную логику приложения.
package app

import (
	"fmt"
	"log"
	"sync"

	"lightwhisper/internal/audio"
	"lightwhisper/internal/config"
	"lightwhisper/internal/events"
	"lightwhisper/internal/hotkey"
	"lightwhisper/internal/i18n"
	"lightwhisper/internal/input"
	"lightwhisper/internal/models"
	"lightwhisper/internal/notify"
	"lightwhisper/internal/session"
	"lightwhisper/internal/speech"
)

// App представляет главное приложение: разделяемое состояние процесса
// и поверхность запросов для слоя отображения.
//
// Mutex защищает только короткие секции - блокирующие операции
// (устройство, сеть, инференс) выполняются вне критических секций.
type App struct {
	mu sync.Mutex

	config   *config.Config
	recorder *audio.Recorder
	manager  *models.Manager
	factory  *speech.Factory
	injector input.Injector
	notifier *notify.Notifier
	hotkey   *hotkey.Handler
	bus      *events.Bus
	session  *session.Session
}

// New создаёт приложение и все его компоненты.
func New() (*App, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cfg := config.New()
	bus := events.NewBus()

	recorder, err := audio.NewRecorder(bus.Waveform)
	if err != nil {
		return nil, err
	}

	injector, err := input.New()
	if err != nil {
		recorder.Close()
		return nil, err
	}

	manager := models.NewManager(config.ModelsDir(), config.TempDir(), bus)
	factory := speech.NewFactory(manager)

	data := cfg.Snapshot()
	factory.Configure(models.Engine(data.Engine), data.ModelSize)

	notifier := notify.New(true)

	app := &App{
		config:   cfg,
		recorder: recorder,
		manager:  manager,
		factory:  factory,
		injector: injector,
		notifier: notifier,
		bus:      bus,
	}

	app.session = session.New(recorder, factory, injector, notifier, bus, cfg)
	app.hotkey = hotkey.New(app.session.Toggle)

	return app, nil
}

// Run регистрирует горячую клавишу и включает приложение.
func (a *App) Run() error {
	data := a.config.Snapshot()

	chord, err := hotkey.ParseShortcut(data.Shortcut)
	if err != nil {
		log.Printf("Некорректное сочетание %q, используем умолчание: %v", data.Shortcut, err)
		chord, _ = hotkey.ParseShortcut(config.Default().Shortcut)
	}

	if err := a.hotkey.Register(chord); err != nil {
		return fmt.Errorf("%s: %w", i18n.T("error_hotkey_register"), err)
	}

	a.notifier.Info(i18n.T("notify_ready"))
	log.Printf("Приложение запущено. Нажмите %s для записи.", chord.String())
	return nil
}

// Events возвращает шину уведомлений для слоя отображения.
func (a *App) Events() *events.Bus {
	return a.bus
}

// GetConfig возвращает текущую конфигурацию.
func (a *App) GetConfig() config.Data {
	return a.config.Snapshot()
}

// SaveConfig сохраняет конфигурацию (кроме горячей клавиши - у неё
// свой путь через ChangeShortcut). Смена движка или размера модели
// помечает распознаватель устаревшим; перезагрузка произойдёт
// лениво при следующем распознавании.
func (a *App) SaveConfig(data config.Data) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.config.Replace(data)
	if err := a.config.Save(); err != nil {
		return err
	}

	a.factory.Configure(models.Engine(data.Engine), data.ModelSize)
	return nil
}

// ListAudioDevices возвращает список устройств записи.
func (a *App) ListAudioDevices() ([]string, error) {
	return audio.ListDevices()
}

// CheckModelExists проверяет что все файлы модели установлены.
func (a *App) CheckModelExists(engine, modelSize string) bool {
	desc, ok := models.Lookup(models.Engine(engine), modelSize)
	if !ok {
		return false
	}
	return a.manager.Exists(desc)
}

// DownloadModel запускает загрузку модели. Прогресс и результат
// приходят событиями download-* через шину. Активная загрузка
// (если была) отменяется.
func (a *App) DownloadModel(engine, modelSize string) error {
	desc, ok := models.Lookup(models.Engine(engine), modelSize)
	if !ok {
		return fmt.Errorf("неизвестный движок: %s", engine)
	}

	a.manager.Download(desc)
	return nil
}

// ChangeShortcut перепривязывает глобальную горячую клавишу.
// Сочетание из одних модификаторов или уже занятое системой - ошибка.
func (a *App) ChangeShortcut(shortcut string) error {
	chord, err := hotkey.ParseShortcut(shortcut)
	if err != nil {
		return err
	}

	if err := a.hotkey.Register(chord); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.SetShortcut(chord.String())
	return a.config.Save()
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	if a.hotkey != nil {
		a.hotkey.Unregister()
	}

	if a.manager != nil {
		a.manager.Cancel()
	}

	if a.session != nil {
		a.session.Close()
	}

	if a.recorder != nil {
		a.recorder.Close()
	}

	if a.factory != nil {
		a.factory.Close()
	}

	// Временные аудио файлы и недокачанные модели не переживают выход
	config.CleanTemp()
}
