package speech

import (
	"errors"
	"testing"

	"lightwhisper/internal/models"
)

// fakeRecognizer реализует Recognizer без реальной модели.
type fakeRecognizer struct {
	name   string
	closed bool
}

func (r *fakeRecognizer) Transcribe(samples []float32, lang string) (string, error) {
	return "", nil
}
func (r *fakeRecognizer) Close()       { r.closed = true }
func (r *fakeRecognizer) Name() string { return r.name }

// TestFactoryLazyLoad проверяет что модель загружается один раз
// и повторные обращения возвращают тот же распознаватель.
func TestFactoryLazyLoad(t *testing.T) {
	f := NewFactory(nil)
	creates := 0
	f.create = func(engine models.Engine, size string) (Recognizer, error) {
		creates++
		return &fakeRecognizer{name: string(engine) + "-" + size}, nil
	}

	f.Configure(models.EngineWhisper, "base")
	if f.IsLoaded() {
		t.Fatal("модель загружена до первого обращения")
	}

	first, err := f.Current()
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Current()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("повторное обращение пересоздало распознаватель")
	}
	if creates != 1 {
		t.Fatalf("загрузок: %d, want 1", creates)
	}
	if !f.IsLoaded() {
		t.Fatal("IsLoaded=false после загрузки")
	}
}

// TestFactoryReloadOnChange проверяет перезагрузку при смене
// конфигурации и закрытие старого распознавателя.
func TestFactoryReloadOnChange(t *testing.T) {
	f := NewFactory(nil)
	creates := 0
	f.create = func(engine models.Engine, size string) (Recognizer, error) {
		creates++
		return &fakeRecognizer{name: string(engine) + "-" + size}, nil
	}

	f.Configure(models.EngineWhisper, "base")
	first, _ := f.Current()

	f.Configure(models.EngineWhisper, "small")
	second, err := f.Current()
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Fatal("смена размера не перезагрузила модель")
	}
	if !first.(*fakeRecognizer).closed {
		t.Fatal("старый распознаватель не закрыт")
	}
	if creates != 2 {
		t.Fatalf("загрузок: %d, want 2", creates)
	}

	// Та же конфигурация - без перезагрузки
	if again, _ := f.Current(); again != second {
		t.Fatal("лишняя перезагрузка при неизменной конфигурации")
	}
}

// TestFactoryCreateError проверяет что ошибка загрузки не трогает
// текущий распознаватель и повторное обращение пробует снова.
func TestFactoryCreateError(t *testing.T) {
	f := NewFactory(nil)
	fail := true
	f.create = func(engine models.Engine, size string) (Recognizer, error) {
		if fail {
			return nil, errors.New("модель не скачана")
		}
		return &fakeRecognizer{}, nil
	}

	f.Configure(models.EngineVosk, "")
	if _, err := f.Current(); err == nil {
		t.Fatal("ожидалась ошибка загрузки")
	}
	if f.IsLoaded() {
		t.Fatal("IsLoaded=true после ошибки")
	}

	fail = false
	if _, err := f.Current(); err != nil {
		t.Fatalf("повторная загрузка: %v", err)
	}
}

// TestFactoryClose проверяет закрытие текущего распознавателя.
func TestFactoryClose(t *testing.T) {
	f := NewFactory(nil)
	rec := &fakeRecognizer{}
	f.create = func(models.Engine, string) (Recognizer, error) { return rec, nil }

	f.Configure(models.EngineWhisper, "tiny")
	if _, err := f.Current(); err != nil {
		t.Fatal(err)
	}

	f.Close()
	if !rec.closed {
		t.Fatal("Close не закрыл распознаватель")
	}
	if f.IsLoaded() {
		t.Fatal("IsLoaded=true после Close")
	}
}
