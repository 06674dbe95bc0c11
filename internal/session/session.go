// Package session реализует машину состояний цикла записи:
// Idle → Starting → Capturing → Resampling → Transcribing →
// Injecting → Idle.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"lightwhisper/internal/audio"
	"lightwhisper/internal/config"
	"lightwhisper/internal/events"
	"lightwhisper/internal/i18n"
	"lightwhisper/internal/speech"
)

// State - состояние машины записи.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateCapturing
	StateResampling
	StateTranscribing
	StateInjecting
	StateError
)

// String возвращает имя состояния для логов.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateCapturing:
		return "capturing"
	case StateResampling:
		return "resampling"
	case StateTranscribing:
		return "transcribing"
	case StateInjecting:
		return "injecting"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// MinRecordingDuration - минимальная длительность записи для распознавания.
	MinRecordingDuration = 500 * time.Millisecond
	// silenceRMS - порог "тихой" записи: ниже него считаем что аудио
	// не дошло (нет доступа к микрофону или устройство отвалилось).
	silenceRMS = 1e-6
)

// Capturer - запись аудио (реализуется audio.Recorder).
type Capturer interface {
	Start(deviceID string) error
	Stop() (samples []float32, rate, channels int)
	IsRecording() bool
}

// RecognizerSource выдаёт загруженный распознаватель (speech.Factory).
type RecognizerSource interface {
	Current() (speech.Recognizer, error)
}

// Injector вставляет текст в активное приложение (input.Injector).
type Injector interface {
	Inject(text string) error
}

// Notifier - пользовательские уведомления (notify.Notifier).
type Notifier interface {
	Recording()
	Processing()
	Success(text string)
	Empty()
	Error(msg string)
}

// Session - машина состояний одного цикла запись-распознавание-вставка.
//
// Toggle - единственная точка входа; каждый вызов продвигает машину
// на один шаг. Toggle в занятом состоянии запоминается как один
// отложенный (без накопления) и срабатывает по возвращении в Idle -
// второй параллельной сессии не бывает.
type Session struct {
	mu      sync.Mutex
	state   State
	pending bool
	start   time.Time

	capturer Capturer
	engines  RecognizerSource
	injector Injector
	notifier Notifier
	bus      *events.Bus
	cfg      *config.Config

	minDuration time.Duration
}

// New создаёт машину состояний в Idle.
func New(capturer Capturer, engines RecognizerSource, injector Injector, notifier Notifier, bus *events.Bus, cfg *config.Config) *Session {
	return &Session{
		state:       StateIdle,
		capturer:    capturer,
		engines:     engines,
		injector:    injector,
		notifier:    notifier,
		bus:         bus,
		cfg:         cfg,
		minDuration: MinRecordingDuration,
	}
}

// State возвращает текущее состояние.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Toggle обрабатывает нажатие горячей клавиши.
func (s *Session) Toggle() {
	s.mu.Lock()

	switch s.state {
	case StateIdle:
		data := s.cfg.Snapshot()
		s.state = StateStarting
		s.mu.Unlock()

		// Запись стартует без удержания mutex: открытие устройства
		// может блокироваться. Capturing - только после успешного
		// старта, иначе toggle в этом окне остановил бы ещё не
		// начатую запись.
		if err := s.capturer.Start(data.AudioDevice); err != nil {
			log.Printf("Ошибка начала записи: %v", err)
			s.fail(i18n.T("error_recording") + ": " + err.Error())
			s.reset()
			return
		}

		s.mu.Lock()
		s.state = StateCapturing
		s.start = time.Now()
		pending := s.pending
		s.pending = false
		s.mu.Unlock()

		s.bus.RecordingStarted()
		s.notifier.Recording()

		// Toggle, пришедший пока устройство открывалось, останавливает
		// только что начатую запись (минимальная длительность отсеет её).
		if pending {
			go s.Toggle()
		}

	case StateCapturing:
		s.state = StateResampling
		started := s.start
		s.mu.Unlock()

		// Пайплайн на собственной горутине - диспетчер горячих
		// клавиш не ждёт ресемплинг и распознавание.
		go s.process(started)

	default:
		// Запись уже обрабатывается - запоминаем один toggle
		s.pending = true
		s.mu.Unlock()
	}
}

// process выполняет Resampling → Transcribing → Injecting для
// остановленной записи.
func (s *Session) process(started time.Time) {
	defer s.reset()

	elapsed := time.Since(started)
	samples, rate, channels := s.capturer.Stop()
	s.bus.RecordingStopped()

	// Случайные короткие нажатия не распознаём
	if elapsed < s.minDuration {
		return
	}

	// Пустая запись - не ошибка: "ничего не сказано"
	if len(samples) == 0 {
		s.notifier.Empty()
		return
	}

	// Структурно валидная, но полностью тихая запись - признак
	// проблемы с доступом к микрофону, а не тишины в комнате.
	if audio.RMS(samples) < silenceRMS {
		data := s.cfg.Snapshot()
		msg := fmt.Sprintf("%s (устройство: %q)", i18n.T("error_silent_capture"), data.AudioDevice)
		log.Print(msg)
		s.bus.AppError(msg)
		s.notifier.Error(msg)
		return
	}

	pcm := audio.Resample(audio.Downmix(samples, channels), rate)

	if !s.transition(StateResampling, StateTranscribing) {
		return
	}
	s.notifier.Processing()

	recognizer, err := s.engines.Current()
	if err != nil {
		log.Printf("Ошибка загрузки модели: %v", err)
		s.fail(i18n.T("error_model_load") + ": " + err.Error())
		return
	}

	lang := s.cfg.Snapshot().Language
	text, err := recognizer.Transcribe(pcm, lang)
	if err != nil {
		log.Printf("Ошибка распознавания: %v", err)
		s.fail(i18n.T("error_recognition"))
		return
	}

	if text == "" {
		s.notifier.Empty()
		return
	}

	if !s.transition(StateTranscribing, StateInjecting) {
		return
	}

	if err := s.injector.Inject(text); err != nil {
		log.Printf("Ошибка вставки текста: %v", err)
		s.fail(i18n.T("error_input") + ": " + err.Error())
		return
	}

	s.notifier.Success(text)
}

// transition переводит машину из from в to. Любое другое исходное
// состояние - нарушение инварианта: логируем и сбрасываемся.
func (s *Session) transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != from {
		log.Printf("Недопустимый переход: %s -> %s (текущее %s)", from, to, s.state)
		s.state = StateIdle
		return false
	}
	s.state = to
	return true
}

// fail сообщает об ошибке цикла и переводит машину в Error.
// Error - терминальное состояние цикла, reset вернёт Idle.
func (s *Session) fail(msg string) {
	s.bus.AppError(msg)
	s.notifier.Error(msg)

	s.mu.Lock()
	s.state = StateError
	s.mu.Unlock()
}

// reset возвращает машину в Idle и отрабатывает отложенный toggle.
func (s *Session) reset() {
	s.mu.Lock()
	s.state = StateIdle
	pending := s.pending
	s.pending = false
	s.mu.Unlock()

	if pending {
		go s.Toggle()
	}
}

// Close останавливает запись если она идёт.
func (s *Session) Close() {
	s.mu.Lock()
	capturing := s.state == StateStarting || s.state == StateCapturing
	s.state = StateIdle
	s.pending = false
	s.mu.Unlock()

	if capturing {
		s.capturer.Stop()
	}
}
