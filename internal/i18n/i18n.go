// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name": "LightWhisper",

		// Notifications
		"notify_recording":       "Запись...",
		"notify_recording_hint":  "Говорите в микрофон",
		"notify_processing":      "Распознаю...",
		"notify_processing_hint": "Пожалуйста, подождите",
		"notify_done":            "Готово",
		"notify_empty":           "Не удалось распознать",
		"notify_empty_hint":      "Попробуйте ещё раз",
		"notify_error":           "Ошибка",
		"notify_ready":           "LightWhisper готов к работе",

		// Errors
		"error_recording":        "Не удалось начать запись",
		"error_recognition":      "Ошибка распознавания",
		"error_input":            "Не удалось вставить текст",
		"error_model_load":       "Не удалось загрузить модель",
		"error_model_missing":    "Модель не скачана - откройте настройки",
		"error_silent_capture":   "Аудио не записалось. Проверьте устройство или разрешение на доступ к микрофону",
		"error_hotkey_register":  "Не удалось зарегистрировать горячую клавишу",
	},
	EN: {
		// App
		"app_name": "LightWhisper",

		// Notifications
		"notify_recording":       "Recording...",
		"notify_recording_hint":  "Speak into the microphone",
		"notify_processing":      "Transcribing...",
		"notify_processing_hint": "Please wait",
		"notify_done":            "Done",
		"notify_empty":           "Nothing recognized",
		"notify_empty_hint":      "Try again",
		"notify_error":           "Error",
		"notify_ready":           "LightWhisper is ready",

		// Errors
		"error_recording":        "Cannot start recording",
		"error_recognition":      "Transcription failed",
		"error_input":            "Cannot paste text",
		"error_model_load":       "Cannot load model",
		"error_model_missing":    "Model not downloaded - open settings",
		"error_silent_capture":   "No audio detected. Check the device or grant microphone access",
		"error_hotkey_register":  "Cannot register hotkey",
	},
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; ok {
		current = lang
	}
}

// Current returns the current UI language.
func Current() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T returns the translation for a key in the current language.
// Falls back to English, then to the key itself.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if s, ok := translations[current][key]; ok {
		return s
	}
	if s, ok := translations[EN][key]; ok {
		return s
	}
	return key
}
