// Package audio предоставляет запись аудио с микрофона.
package audio

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// FramesPerBuffer - размер буфера чтения.
	FramesPerBuffer = 1024
	// waveformBatch - количество сэмплов на одно значение волны.
	waveformBatch = 800
)

// ErrAlreadyRecording возвращается при повторном Start без Stop.
var ErrAlreadyRecording = errors.New("запись уже идёт")

// Recorder записывает аудио с микрофона.
//
// Устройство открывается на нативной частоте/каналах и живёт целиком
// на выделенном потоке записи: открытие, чтение и закрытие stream
// происходят только там. Наружу уходят лишь неизменяемые данные -
// амплитуды для визуализации и итоговый буфер сэмплов.
type Recorder struct {
	mu       sync.Mutex
	samples  []float32
	running  bool
	done     chan struct{}
	rate     int
	channels int

	ring    *WaveformRing
	publish func(rms float32) // callback для waveform-update, может быть nil
}

// NewRecorder создаёт Recorder. publish вызывается из потока записи
// на каждое новое значение волны.
func NewRecorder(publish func(rms float32)) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("ошибка инициализации аудио: %w", err)
	}

	return &Recorder{
		ring:    NewWaveformRing(WaveformSize),
		publish: publish,
	}, nil
}

// Waveform возвращает кольцо последних амплитуд.
func (r *Recorder) Waveform() *WaveformRing {
	return r.ring
}

// Start начинает запись с указанного устройства ("default" или имя).
// Возвращает ошибку если устройство недоступно.
func (r *Recorder) Start(deviceID string) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}

	r.samples = make([]float32, 0, TargetRate*30) // Буфер на 30 сек
	r.running = true
	r.done = make(chan struct{})
	r.ring.Reset()
	r.mu.Unlock()

	ready := make(chan error, 1)
	go r.captureLoop(deviceID, ready, r.done)

	if err := <-ready; err != nil {
		r.mu.Lock()
		r.running = false
		r.done = nil
		r.mu.Unlock()
		return err
	}
	return nil
}

// captureLoop - поток записи. Stream не покидает эту горутину.
func (r *Recorder) captureLoop(deviceID string, ready chan<- error, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	device, err := findInputDevice(deviceID)
	if err != nil {
		ready <- err
		return
	}

	rate := int(device.DefaultSampleRate)
	channels := device.MaxInputChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		ready <- fmt.Errorf("устройство %q не имеет входных каналов", device.Name)
		return
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(rate),
		FramesPerBuffer: FramesPerBuffer,
	}

	// Пробуем float32, при отказе устройства переходим на int16.
	floatBuf := make([]float32, FramesPerBuffer*channels)
	intBuf := make([]int16, 0)

	stream, err := portaudio.OpenStream(params, floatBuf)
	if err != nil {
		intBuf = make([]int16, FramesPerBuffer*channels)
		stream, err = portaudio.OpenStream(params, intBuf)
		if err != nil {
			ready <- fmt.Errorf("не удалось открыть устройство %q: %w", device.Name, err)
			return
		}
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		ready <- fmt.Errorf("не удалось начать запись: %w", err)
		return
	}

	r.mu.Lock()
	r.rate = rate
	r.channels = channels
	r.mu.Unlock()

	ready <- nil

	// Аккумулятор для волны: RMS по каждым waveformBatch сэмплам.
	wbuf := make([]float32, 0, waveformBatch*channels)
	chunk := make([]float32, FramesPerBuffer*channels)

	for {
		r.mu.Lock()
		running := r.running
		r.mu.Unlock()
		if !running {
			break
		}

		if err := stream.Read(); err != nil {
			// Устройство могло быть отключено - накопленные сэмплы
			// остаются, сессия продолжит с ними после Stop.
			r.mu.Lock()
			running = r.running
			r.mu.Unlock()
			if !running {
				break
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if len(intBuf) > 0 {
			for i, v := range intBuf {
				chunk[i] = float32(v) / 32768.0
			}
		} else {
			copy(chunk, floatBuf)
		}

		r.mu.Lock()
		if r.running {
			r.samples = append(r.samples, chunk...)
		}
		r.mu.Unlock()

		wbuf = append(wbuf, chunk...)
		if len(wbuf) >= waveformBatch*channels {
			rms := RMS(wbuf)
			if rms > 1.0 {
				rms = 1.0
			}
			r.ring.Push(rms)
			if r.publish != nil {
				r.publish(rms)
			}
			wbuf = wbuf[:0]
		}
	}

	stream.Stop()
	stream.Close()
}

// Stop останавливает запись и возвращает сырые сэмплы вместе с
// нативной частотой и числом каналов устройства. Пустой результат -
// не ошибка, его интерпретирует слой выше.
func (r *Recorder) Stop() (samples []float32, rate, channels int) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil, 0, 0
	}

	r.running = false
	samples = r.samples
	rate = r.rate
	channels = r.channels
	r.samples = nil
	done := r.done
	r.done = nil
	r.mu.Unlock()

	// Ждём пока поток записи закроет устройство
	if done != nil {
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
		}
	}

	return samples, rate, channels
}

// IsRecording возвращает true если идёт запись.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Close освобождает ресурсы.
func (r *Recorder) Close() {
	r.Stop()
	portaudio.Terminate()
}

// ListDevices возвращает имена доступных устройств записи.
func ListDevices() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("не удалось перечислить устройства: %w", err)
	}

	names := []string{"default"}
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}

// findInputDevice ищет устройство по имени, "default" - системное.
func findInputDevice(deviceID string) (*portaudio.DeviceInfo, error) {
	if deviceID == "" || deviceID == "default" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("нет устройства записи по умолчанию: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("не удалось перечислить устройства: %w", err)
	}
	for _, d := range devices {
		if d.Name == deviceID && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("устройство %q не найдено", deviceID)
}
