package notify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestTruncate проверяет обрезание текста уведомления по границе
// руны: кириллический текст не должен превращаться в битый UTF-8.
func TestTruncate(t *testing.T) {
	long := strings.Repeat("привет ", 30) // 210 символов, 2 байта на букву

	got := truncate(long, notifyLimit)
	if !utf8.ValidString(got) {
		t.Fatal("обрезанный текст - не валидный UTF-8")
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("нет многоточия: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != notifyLimit+3 {
		t.Fatalf("символов %d, want %d", n, notifyLimit+3)
	}
}

// TestTruncateShort проверяет что короткий текст не трогается.
func TestTruncateShort(t *testing.T) {
	for _, s := range []string{"", "привет", strings.Repeat("ы", notifyLimit)} {
		if got := truncate(s, notifyLimit); got != s {
			t.Fatalf("truncate(%q)=%q", s, got)
		}
	}
}
