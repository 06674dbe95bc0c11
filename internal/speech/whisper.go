package speech

import (
	"io"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// minSamples - минимальная длина входа для whisper (200ms при 16kHz).
// Whisper требует минимум 100ms, добавляем запас.
const minSamples = 16000 / 5

// WhisperRecognizer реализует Recognizer через whisper.cpp.
// Размер модели (tiny/base/small/medium) выбирается файлом модели.
type WhisperRecognizer struct {
	mu    sync.Mutex
	model whisper.Model
}

// NewWhisper создаёт WhisperRecognizer из файла модели.
func NewWhisper(modelPath string) (*WhisperRecognizer, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, err
	}

	return &WhisperRecognizer{model: model}, nil
}

// Name возвращает название движка.
func (w *WhisperRecognizer) Name() string {
	return "whisper"
}

// Transcribe распознаёт речь из аудио сэмплов.
// Mutex гарантирует что в движке не больше одного запроса.
func (w *WhisperRecognizer) Transcribe(samples []float32, lang string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Дополняем тишиной слишком короткую запись
	if len(samples) < minSamples {
		padded := make([]float32, minSamples)
		copy(padded, samples)
		samples = padded
	}

	ctx, err := w.model.NewContext()
	if err != nil {
		return "", err
	}

	// Только транскрипция, без перевода
	ctx.SetTranslate(false)

	if lang == "" {
		lang = "auto"
	}
	if err := ctx.SetLanguage(lang); err != nil {
		// Неизвестный язык - откатываемся на автоопределение
		_ = ctx.SetLanguage("auto")
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", err
	}

	var result strings.Builder
	for {
		segment, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		result.WriteString(segment.Text)
	}

	return strings.TrimSpace(result.String()), nil
}

// Close освобождает ресурсы.
func (w *WhisperRecognizer) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model != nil {
		w.model.Close()
		w.model = nil
	}
}
