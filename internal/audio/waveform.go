package audio

import "sync"

// WaveformSize - количество последних амплитуд для визуализации.
const WaveformSize = 256

// WaveformRing - ограниченное кольцо последних RMS значений.
// Старые значения вытесняются новыми.
type WaveformRing struct {
	mu     sync.Mutex
	values []float32
	start  int
	count  int
}

// NewWaveformRing создаёт кольцо на size значений.
func NewWaveformRing(size int) *WaveformRing {
	if size <= 0 {
		size = WaveformSize
	}
	return &WaveformRing{values: make([]float32, size)}
}

// Push добавляет значение, вытесняя самое старое при переполнении.
func (r *WaveformRing) Push(v float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count < len(r.values) {
		r.values[(r.start+r.count)%len(r.values)] = v
		r.count++
		return
	}
	r.values[r.start] = v
	r.start = (r.start + 1) % len(r.values)
}

// Values возвращает значения от старых к новым.
func (r *WaveformRing) Values() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float32, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.values[(r.start+i)%len(r.values)]
	}
	return out
}

// Reset очищает кольцо (перед новой записью).
func (r *WaveformRing) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = 0
	r.count = 0
}
