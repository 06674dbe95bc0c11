// Package models управляет моделями распознавания речи:
// каталог доступных моделей и загрузка их файлов.
package models

import "path/filepath"

// Engine тип движка распознавания.
type Engine string

const (
	EngineWhisper Engine = "whisper"
	EngineVosk    Engine = "vosk"
)

// FileSpec - один файл модели.
//
// Size - приблизительный размер для расчёта прогресса загрузки.
// Точный размер известен только серверу (Content-Length ответа),
// по нему и проверяется целостность передачи.
type FileSpec struct {
	Name string // Имя файла относительно директории установки
	URL  string // URL для скачивания
	Size int64  // Приблизительный размер в байтах
}

// Descriptor - фиксированный набор файлов для выбранного движка/размера.
// У whisper один файл на размер, у vosk директория из нескольких файлов.
type Descriptor struct {
	Engine Engine
	Size   string // Размер модели (только для whisper)
	Dir    string // Поддиректория установки ("" - корень директории моделей)
	Files  []FileSpec
}

// TotalSize возвращает суммарный приблизительный размер файлов.
func (d Descriptor) TotalSize() int64 {
	var total int64
	for _, f := range d.Files {
		total += f.Size
	}
	return total
}

const whisperBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// whisperSizes - приблизительные размеры моделей whisper (для прогресса).
var whisperSizes = map[string]int64{
	"tiny":   75 * 1024 * 1024,
	"base":   142 * 1024 * 1024,
	"small":  466 * 1024 * 1024,
	"medium": 1536 * 1024 * 1024,
}

// WhisperFilename возвращает имя файла модели для размера.
// Неизвестный размер откатывается на base (как и в конфигурации).
func WhisperFilename(size string) string {
	if _, ok := whisperSizes[size]; !ok {
		size = "base"
	}
	return "ggml-" + size + ".bin"
}

// whisperDescriptor строит дескриптор whisper модели.
func whisperDescriptor(size string) Descriptor {
	if _, ok := whisperSizes[size]; !ok {
		size = "base"
	}
	name := WhisperFilename(size)
	return Descriptor{
		Engine: EngineWhisper,
		Size:   size,
		Files: []FileSpec{
			{
				Name: name,
				URL:  whisperBaseURL + "/" + name,
				Size: whisperSizes[size],
			},
		},
	}
}

const (
	voskModelName = "vosk-model-small-ru-0.22"
	voskBaseURL   = "https://huggingface.co/alphacep/vosk-model-small-ru/resolve/main"
)

// voskDescriptor - многофайловая модель Vosk (зеркало alphacep).
func voskDescriptor() Descriptor {
	files := []struct {
		name string
		size int64
	}{
		{"am/final.mdl", 39 * 1024 * 1024},
		{"conf/mfcc.conf", 1 * 1024},
		{"conf/model.conf", 1 * 1024},
		{"graph/Gr.fst", 3 * 1024 * 1024},
		{"graph/HCLr.fst", 2 * 1024 * 1024},
		{"graph/disambig_tid.int", 4 * 1024},
		{"graph/phones/word_boundary.int", 2 * 1024},
		{"ivector/final.dubm", 3 * 1024 * 1024},
		{"ivector/final.ie", 1 * 1024 * 1024},
		{"ivector/final.mat", 64 * 1024},
		{"ivector/global_cmvn.stats", 1 * 1024},
		{"ivector/online_cmvn.conf", 1 * 1024},
		{"ivector/splice.conf", 1 * 1024},
	}

	specs := make([]FileSpec, 0, len(files))
	for _, f := range files {
		specs = append(specs, FileSpec{
			Name: f.name,
			URL:  voskBaseURL + "/" + f.name,
			Size: f.size,
		})
	}

	return Descriptor{
		Engine: EngineVosk,
		Dir:    voskModelName,
		Files:  specs,
	}
}

// Lookup возвращает дескриптор для движка и размера модели.
func Lookup(engine Engine, size string) (Descriptor, bool) {
	switch engine {
	case EngineWhisper:
		return whisperDescriptor(size), true
	case EngineVosk:
		return voskDescriptor(), true
	default:
		return Descriptor{}, false
	}
}

// InstallPath возвращает путь загрузки движка относительно директории
// моделей: файл модели для whisper, директорию модели для vosk.
func InstallPath(modelsDir string, d Descriptor) string {
	if d.Engine == EngineVosk {
		return filepath.Join(modelsDir, d.Dir)
	}
	return filepath.Join(modelsDir, d.Files[0].Name)
}
