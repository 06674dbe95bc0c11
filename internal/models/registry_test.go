package models

import (
	"path/filepath"
	"testing"
)

// TestLookupWhisper проверяет дескрипторы whisper по размерам.
func TestLookupWhisper(t *testing.T) {
	for _, size := range []string{"tiny", "base", "small", "medium"} {
		d, ok := Lookup(EngineWhisper, size)
		if !ok {
			t.Fatalf("Lookup(whisper, %s) не найден", size)
		}
		if len(d.Files) != 1 {
			t.Fatalf("whisper %s: %d файлов, want 1", size, len(d.Files))
		}
		want := "ggml-" + size + ".bin"
		if d.Files[0].Name != want {
			t.Errorf("whisper %s: файл %q, want %q", size, d.Files[0].Name, want)
		}
		if d.Files[0].Size <= 0 || d.Files[0].URL == "" {
			t.Errorf("whisper %s: неполный FileSpec %+v", size, d.Files[0])
		}
	}
}

// TestLookupWhisperUnknownSize проверяет откат на base.
func TestLookupWhisperUnknownSize(t *testing.T) {
	d, ok := Lookup(EngineWhisper, "gigantic")
	if !ok {
		t.Fatal("Lookup не найден")
	}
	if d.Size != "base" || d.Files[0].Name != "ggml-base.bin" {
		t.Fatalf("откат не сработал: %+v", d)
	}
}

// TestLookupVosk проверяет многофайловый дескриптор vosk.
func TestLookupVosk(t *testing.T) {
	d, ok := Lookup(EngineVosk, "")
	if !ok {
		t.Fatal("Lookup(vosk) не найден")
	}
	if d.Dir == "" {
		t.Fatal("vosk без поддиректории установки")
	}
	if len(d.Files) < 2 {
		t.Fatalf("vosk: %d файлов, ожидался многофайловый набор", len(d.Files))
	}
	for _, f := range d.Files {
		if f.Name == "" || f.URL == "" || f.Size <= 0 {
			t.Errorf("неполный FileSpec %+v", f)
		}
	}
	if d.TotalSize() <= 0 {
		t.Fatal("TotalSize <= 0")
	}
}

// TestLookupUnknownEngine проверяет неизвестный движок.
func TestLookupUnknownEngine(t *testing.T) {
	if _, ok := Lookup("parakeet", ""); ok {
		t.Fatal("неизвестный движок не должен находиться")
	}
}

// TestInstallPath проверяет путь установки для обоих движков.
func TestInstallPath(t *testing.T) {
	whisper, _ := Lookup(EngineWhisper, "base")
	if got := InstallPath("/m", whisper); got != filepath.Join("/m", "ggml-base.bin") {
		t.Errorf("whisper InstallPath=%q", got)
	}

	vosk, _ := Lookup(EngineVosk, "")
	if got := InstallPath("/m", vosk); got != filepath.Join("/m", vosk.Dir) {
		t.Errorf("vosk InstallPath=%q", got)
	}
}
