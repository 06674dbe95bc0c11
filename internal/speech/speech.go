// Package speech предоставляет абстракцию для движков распознавания речи.
package speech

// Recognizer - интерфейс для движков распознавания речи.
type Recognizer interface {
	// Transcribe распознаёт речь из аудио сэмплов.
	// samples - аудио данные в формате float32, 16kHz, mono.
	// lang - язык распознавания ("ru", "en", "auto" для автоопределения).
	// Движок вправе игнорировать подсказку языка (Vosk определяет
	// язык своей моделью). Пустой вход даёт пустой текст без ошибки.
	Transcribe(samples []float32, lang string) (string, error)

	// Close освобождает ресурсы движка.
	Close()

	// Name возвращает название движка (для логирования).
	Name() string
}
