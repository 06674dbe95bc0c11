// Package hotkey предоставляет глобальные горячие клавиши.
package hotkey

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

// Handler обрабатывает события горячих клавиш.
type Handler struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	onPress func()
	current Chord
	stopCh  chan struct{}
}

// New создаёт обработчик горячей клавиши.
// onPress - единственная точка входа в цикл записи (toggle).
func New(onPress func()) *Handler {
	return &Handler{onPress: onPress}
}

// Register регистрирует сочетание, снимая предыдущую регистрацию.
// Возвращает ошибку если сочетание уже занято в системе.
func (h *Handler) Register(chord Chord) error {
	log.Printf("Регистрация горячей клавиши: %s", chord.String())

	h.mu.Lock()

	// Останавливаем предыдущий listener
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}

	oldHk := h.hk
	h.hk = nil
	h.mu.Unlock()

	// Небольшая задержка чтобы listener завершился
	time.Sleep(50 * time.Millisecond)

	// Отменяем предыдущую регистрацию с таймаутом
	if oldHk != nil {
		done := make(chan struct{})
		go func() {
			oldHk.Unregister()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			log.Printf("Hotkey unregister timeout")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	mods := make([]hotkey.Modifier, 0, len(chord.Modifiers))
	for _, m := range chord.Modifiers {
		if mod, ok := modifierMap[m]; ok {
			mods = append(mods, mod)
		}
	}

	key, ok := keyMap[chord.Key]
	if !ok {
		return fmt.Errorf("неизвестная клавиша: %q", chord.Key)
	}

	h.hk = hotkey.New(mods, key)
	h.current = chord
	h.stopCh = make(chan struct{})

	if err := h.hk.Register(); err != nil {
		h.hk = nil
		h.stopCh = nil
		return fmt.Errorf("не удалось зарегистрировать %s (возможно, сочетание занято): %w",
			chord.String(), err)
	}

	go h.listen(h.stopCh)
	return nil
}

func (h *Handler) listen(stopCh chan struct{}) {
	h.mu.Lock()
	hk := h.hk
	h.mu.Unlock()

	if hk == nil {
		return
	}

	var lastKeydown time.Time
	const debounceInterval = 300 * time.Millisecond // Защита от key repeat

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			now := time.Now()
			if now.Sub(lastKeydown) < debounceInterval {
				continue
			}
			lastKeydown = now
			if h.onPress != nil {
				h.onPress()
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
			// Toggle режим - keyup игнорируем
		}
	}
}

// Unregister отменяет регистрацию горячей клавиши.
func (h *Handler) Unregister() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}

	if h.hk != nil {
		err := h.hk.Unregister()
		h.hk = nil
		return err
	}
	return nil
}

// Current возвращает текущее зарегистрированное сочетание.
func (h *Handler) Current() Chord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}
