// LightWhisper - кроссплатформенное приложение для голосового ввода текста.
//
// Глобальная горячая клавиша включает запись с микрофона, запись
// распознаётся локальной моделью (Whisper или Vosk) и текст
// вставляется в активное приложение.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"lightwhisper/internal/app"
	"lightwhisper/internal/hotkey"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("LightWhisper %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS)
	hotkey.RunOnMainThread(run)
}

func run() {
	application, err := app.New()
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Printf("Ошибка запуска: %v", err)
		application.Close()
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("Завершение работы...")
	application.Close()
}
