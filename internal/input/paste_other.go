//go:build !darwin

package input

import "github.com/micmonay/keybd_event"

// Подсказка при отказе симуляции нажатия.
const permissionHint = "проверьте права на эмуляцию ввода (на Linux нужен доступ к /dev/uinput)"

// setPasteModifier выставляет Ctrl для Ctrl+V.
func setPasteModifier(kb *keybd_event.KeyBonding) {
	kb.HasCTRL(true)
}
