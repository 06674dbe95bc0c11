// Package events предоставляет канал уведомлений для слоя отображения.
//
// Бэкенд публикует события (волна, запись, прогресс загрузки, ошибки),
// подписчики получают их в порядке публикации. Медленный подписчик
// теряет события - они носят информационный характер и на корректность
// распознавания не влияют.
package events

import "sync"

// Type тип события.
type Type string

const (
	TypeWaveformUpdate   Type = "waveform-update"
	TypeRecordingStarted Type = "recording-started"
	TypeRecordingStopped Type = "recording-stopped"
	TypeDownloadFileInfo Type = "download-file-info"
	TypeDownloadProgress Type = "download-progress"
	TypeDownloadComplete Type = "download-complete"
	TypeDownloadError    Type = "download-error"
	TypeAppError         Type = "app-error"
)

// Event - одно событие с полезной нагрузкой, зависящей от типа.
type Event struct {
	Seq  int64 `json:"seq"`
	Type Type  `json:"type"`

	// waveform-update
	Amplitude float32 `json:"amplitude,omitempty"`

	// download-file-info
	FileIndex int    `json:"fileIndex,omitempty"`
	FileCount int    `json:"fileCount,omitempty"`
	FileName  string `json:"fileName,omitempty"`

	// download-progress
	Percent      float64 `json:"percent,omitempty"`
	DownloadedMB float64 `json:"downloadedMb,omitempty"`
	TotalMB      float64 `json:"totalMb,omitempty"`

	// download-error / app-error
	Message string `json:"message,omitempty"`
}

// Bus рассылает события подписчикам.
type Bus struct {
	mu      sync.Mutex
	nextSeq int64
	subs    map[int]chan Event
	nextID  int
}

// NewBus создаёт шину событий.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe регистрирует подписчика с буфером buffer событий.
// Возвращает канал и функцию отписки.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish присваивает событию номер и рассылает подписчикам.
// Не блокируется: переполненный подписчик пропускает событие.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Waveform публикует амплитуду для визуализации.
func (b *Bus) Waveform(rms float32) {
	b.Publish(Event{Type: TypeWaveformUpdate, Amplitude: rms})
}

// RecordingStarted публикует начало записи.
func (b *Bus) RecordingStarted() {
	b.Publish(Event{Type: TypeRecordingStarted})
}

// RecordingStopped публикует окончание записи.
func (b *Bus) RecordingStopped() {
	b.Publish(Event{Type: TypeRecordingStopped})
}

// DownloadFileInfo публикует информацию о скачиваемом файле.
func (b *Bus) DownloadFileInfo(index, count int, name string) {
	b.Publish(Event{Type: TypeDownloadFileInfo, FileIndex: index, FileCount: count, FileName: name})
}

// DownloadProgress публикует прогресс загрузки.
func (b *Bus) DownloadProgress(percent, downloadedMB, totalMB float64) {
	b.Publish(Event{Type: TypeDownloadProgress, Percent: percent, DownloadedMB: downloadedMB, TotalMB: totalMB})
}

// DownloadComplete публикует завершение загрузки.
func (b *Bus) DownloadComplete() {
	b.Publish(Event{Type: TypeDownloadComplete})
}

// DownloadError публикует ошибку загрузки.
func (b *Bus) DownloadError(msg string) {
	b.Publish(Event{Type: TypeDownloadError, Message: msg})
}

// AppError публикует ошибку приложения (запись, вставка, права доступа).
func (b *Bus) AppError(msg string) {
	b.Publish(Event{Type: TypeAppError, Message: msg})
}
