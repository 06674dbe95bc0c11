package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

// Chord - разобранное сочетание клавиш.
type Chord struct {
	Modifiers []Modifier
	Key       Key
}

// String возвращает строковое представление сочетания.
func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(c.Key))
	return strings.Join(parts, "+")
}

// ParseShortcut разбирает строку вида "ctrl+shift+space".
// Сочетание из одних модификаторов - ошибка: такое нельзя
// зарегистрировать как глобальную клавишу.
func ParseShortcut(s string) (Chord, error) {
	var chord Chord

	if strings.TrimSpace(s) == "" {
		return chord, fmt.Errorf("пустое сочетание клавиш")
	}

	for _, part := range strings.Split(s, "+") {
		token := strings.ToLower(strings.TrimSpace(part))
		switch token {
		case "":
			return Chord{}, fmt.Errorf("некорректное сочетание: %q", s)
		case "ctrl", "control":
			chord.Modifiers = append(chord.Modifiers, ModCtrl)
		case "shift":
			chord.Modifiers = append(chord.Modifiers, ModShift)
		case "alt", "option":
			chord.Modifiers = append(chord.Modifiers, ModAlt)
		case "super", "win", "cmd", "meta":
			chord.Modifiers = append(chord.Modifiers, ModSuper)
		default:
			if _, ok := keyMap[Key(token)]; !ok {
				return Chord{}, fmt.Errorf("неизвестная клавиша: %q", token)
			}
			if chord.Key != "" {
				return Chord{}, fmt.Errorf("в сочетании %q больше одной клавиши", s)
			}
			chord.Key = Key(token)
		}
	}

	if chord.Key == "" {
		return Chord{}, fmt.Errorf("сочетание %q состоит только из модификаторов", s)
	}
	return chord, nil
}

// keyMap маппинг Key -> hotkey.Key
var keyMap = map[Key]hotkey.Key{
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
	"a":      hotkey.KeyA,
	"b":      hotkey.KeyB,
	"c":      hotkey.KeyC,
	"d":      hotkey.KeyD,
	"e":      hotkey.KeyE,
	"f":      hotkey.KeyF,
	"g":      hotkey.KeyG,
	"h":      hotkey.KeyH,
	"i":      hotkey.KeyI,
	"j":      hotkey.KeyJ,
	"k":      hotkey.KeyK,
	"l":      hotkey.KeyL,
	"m":      hotkey.KeyM,
	"n":      hotkey.KeyN,
	"o":      hotkey.KeyO,
	"p":      hotkey.KeyP,
	"q":      hotkey.KeyQ,
	"r":      hotkey.KeyR,
	"s":      hotkey.KeyS,
	"t":      hotkey.KeyT,
	"u":      hotkey.KeyU,
	"v":      hotkey.KeyV,
	"w":      hotkey.KeyW,
	"x":      hotkey.KeyX,
	"y":      hotkey.KeyY,
	"z":      hotkey.KeyZ,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}
