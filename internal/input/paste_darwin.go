//go:build darwin

package input

import "github.com/micmonay/keybd_event"

// Подсказка при отказе симуляции нажатия.
const permissionHint = "включите доступ в System Settings > Privacy & Security > Accessibility"

// setPasteModifier выставляет Cmd для Cmd+V.
func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasSuper(true)
}
