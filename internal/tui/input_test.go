package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "impresor", "a", "impresora"},
		{"append accented", "soluci", "ó", "solució"},
		{"space key", "vpn", "space", "vpn "},
		{"literal space", "vpn", " ", "vpn "},
		{"backspace", "red", "backspace", "re"},
		{"backspace multibyte", "añ", "backspace", "a"},
		{"backspace empty", "", "backspace", ""},
		{"enter ignored", "abc", "enter", "abc"},
		{"ctrl ignored", "abc", "ctrl+a", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("editRune at max length grew to %d runes", len([]rune(got)))
	}
}

func TestTruncateToHeight(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"limits lines", "a\nb\nc\nd\n", 2, "a\nb\n"},
		{"within limit", "a\nb\n", 5, "a\nb\n"},
		{"zero returns all", "a\nb\n", 0, "a\nb\n"},
		{"negative returns all", "a\nb\n", -1, "a\nb\n"},
		{"exact limit", "a\nb\n", 2, "a\nb\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateToHeight(tc.in, tc.max); got != tc.want {
				t.Errorf("truncateToHeight(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestRenderSearch(t *testing.T) {
	if got := renderSearch("", false); got != "" {
		t.Errorf("renderSearch idle = %q, want empty", got)
	}
	if got := renderSearch("vpn", false); !strings.Contains(got, "vpn") {
		t.Errorf("renderSearch with query = %q", got)
	}
	if got := renderSearch("", true); !strings.Contains(got, "buscar") {
		t.Errorf("renderSearch editing = %q, want placeholder", got)
	}
}

func TestPasswordInputMasks(t *testing.T) {
	ti := newPasswordInput("")
	ti.SetValue("secreto")
	ti.Focus()
	if strings.Contains(ti.View(), "secreto") {
		t.Errorf("password input shows plain text: %q", ti.View())
	}
}
