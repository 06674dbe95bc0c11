package audio

import "math"

// TargetRate - частота дискретизации на входе движков распознавания.
const TargetRate = 16000

// Downmix усредняет interleaved каналы в mono.
// Для channels <= 1 возвращает вход без изменений.
func Downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// Resample переводит mono сэмплы с sourceRate на TargetRate
// линейной интерполяцией. Качество вторично - движки устойчивы
// к артефактам, важна только скорость.
func Resample(samples []float32, sourceRate int) []float32 {
	if sourceRate == TargetRate || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(sourceRate) / float64(TargetRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float32, 0, outLen)

	for i := 0; i < outLen; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		var sample float64
		switch {
		case idx+1 < len(samples):
			sample = float64(samples[idx])*(1.0-frac) + float64(samples[idx+1])*frac
		case idx < len(samples):
			sample = float64(samples[idx])
		}
		out = append(out, float32(sample))
	}

	return out
}

// RMS возвращает среднеквадратичную амплитуду сэмплов.
// Используется для визуализации и эвристики "тихой" записи.
func RMS(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sum / float64(len(samples))))
}
