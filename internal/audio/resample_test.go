package audio

import (
	"math"
	"testing"
)

// TestResampleLength проверяет длину результата для разных частот и
// числа каналов: после downmix и ресемплинга длина отличается от
// frames*16000/rate не больше чем на один сэмпл.
func TestResampleLength(t *testing.T) {
	rates := []int{8000, 11025, 16000, 22050, 44100, 48000, 96000}
	channelCounts := []int{1, 2}

	for _, rate := range rates {
		for _, channels := range channelCounts {
			frames := rate / 2 // полсекунды
			in := make([]float32, frames*channels)
			for i := range in {
				in[i] = float32(math.Sin(float64(i) * 0.01))
			}

			out := Resample(Downmix(in, channels), rate)

			want := float64(frames) * float64(TargetRate) / float64(rate)
			if diff := math.Abs(float64(len(out)) - want); diff > 1 {
				t.Errorf("rate=%d channels=%d: len=%d, want %.1f±1", rate, channels, len(out), want)
			}
		}
	}
}

// TestResampleIdentity проверяет что при совпадении частот данные
// копируются без изменений.
func TestResampleIdentity(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4}
	out := Resample(in, TargetRate)

	if len(out) != len(in) {
		t.Fatalf("len=%d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], in[i])
		}
	}

	// Результат - копия, не тот же slice
	out[0] = 9
	if in[0] == 9 {
		t.Fatal("Resample должен возвращать копию")
	}
}

// TestResampleConstant проверяет что постоянный сигнал остаётся
// постоянным после интерполяции.
func TestResampleConstant(t *testing.T) {
	in := make([]float32, 44100)
	for i := range in {
		in[i] = 0.5
	}

	out := Resample(in, 44100)
	for i, v := range out {
		if math.Abs(float64(v)-0.5) > 1e-6 {
			t.Fatalf("out[%d]=%v, want 0.5", i, v)
		}
	}
}

// TestResampleEmpty проверяет что пустой вход даёт пустой выход.
func TestResampleEmpty(t *testing.T) {
	if out := Resample(nil, 48000); len(out) != 0 {
		t.Fatalf("len=%d, want 0", len(out))
	}
}

// TestDownmixAverages проверяет усреднение каналов.
func TestDownmixAverages(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := Downmix(stereo, 2)

	want := []float32{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("len=%d, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Fatalf("mono[%d]=%v, want %v", i, mono[i], want[i])
		}
	}
}

// TestDownmixMonoPassthrough проверяет что mono не трогаем.
func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	if out := Downmix(in, 1); len(out) != 2 || out[0] != 0.1 {
		t.Fatalf("mono вход изменился: %v", out)
	}
}

// TestRMS проверяет среднеквадратичную амплитуду.
func TestRMS(t *testing.T) {
	if v := RMS(nil); v != 0 {
		t.Fatalf("RMS(nil)=%v, want 0", v)
	}
	if v := RMS(make([]float32, 100)); v != 0 {
		t.Fatalf("RMS(zeros)=%v, want 0", v)
	}

	in := make([]float32, 100)
	for i := range in {
		in[i] = 0.25
	}
	if v := RMS(in); math.Abs(float64(v)-0.25) > 1e-6 {
		t.Fatalf("RMS(const 0.25)=%v, want 0.25", v)
	}
}
