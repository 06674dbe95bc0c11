// Package input предоставляет вставку текста в активное приложение.
//
// Вставка идёт через буфер обмена: сохраняем текущее содержимое,
// кладём распознанный текст, эмулируем сочетание вставки и
// возвращаем буфер обмена обратно.
package input

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

const (
	// clipboardSettle - пауза чтобы ОС приняла новый буфер обмена.
	clipboardSettle = 50 * time.Millisecond
	// pasteSettle - пауза чтобы целевое приложение забрало вставку.
	pasteSettle = 100 * time.Millisecond
)

// Injector вставляет текст в текущее активное поле.
type Injector interface {
	// Inject вставляет текст. При отказе симуляции нажатия текст
	// остаётся в буфере обмена - пользователь может вставить вручную.
	Inject(text string) error
}

// New создаёт Injector.
func New() (Injector, error) {
	return &pasteInjector{}, nil
}

type pasteInjector struct {
	mu      sync.Mutex
	kb      keybd_event.KeyBonding
	kbReady bool
}

// Inject вставляет текст через буфер обмена и сочетание вставки.
func (p *pasteInjector) Inject(text string) error {
	if text == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Сохраняем текущий буфер обмена (best effort)
	previous, prevErr := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("не удалось записать в буфер обмена: %w", err)
	}

	time.Sleep(clipboardSettle)

	if err := p.sendPaste(); err != nil {
		// Буфер обмена уже содержит текст - не восстанавливаем,
		// чтобы пользователь мог вставить сам.
		return fmt.Errorf("%w: %s", err, permissionHint)
	}

	time.Sleep(pasteSettle)

	// Возвращаем прежний буфер обмена (best effort)
	if prevErr == nil {
		if err := clipboard.WriteAll(previous); err != nil {
			log.Printf("Не удалось восстановить буфер обмена: %v", err)
		}
	}

	return nil
}

// sendPaste эмулирует платформенное сочетание вставки.
func (p *pasteInjector) sendPaste() error {
	if !p.kbReady {
		kb, err := keybd_event.NewKeyBonding()
		if err != nil {
			return fmt.Errorf("не удалось инициализировать эмуляцию клавиатуры: %w", err)
		}
		if runtime.GOOS == "linux" {
			// uinput регистрирует виртуальную клавиатуру не сразу
			time.Sleep(2 * time.Second)
		}
		p.kb = kb
		p.kbReady = true
	}

	p.kb.Clear()
	p.kb.SetKeys(keybd_event.VK_V)
	setPasteModifier(&p.kb)

	if err := p.kb.Launching(); err != nil {
		return fmt.Errorf("не удалось отправить сочетание вставки: %w", err)
	}
	return nil
}
