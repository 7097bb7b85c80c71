package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFormChoiceCycles(t *testing.T) {
	f := newForm(choiceField("Prioridad", []string{"baja", "media", "alta"}, "media"))
	if got := f.value(0); got != "media" {
		t.Fatalf("initial choice = %q, want media", got)
	}
	f, _ = f.update(keyType(tea.KeyRight), DefaultKeyMap)
	if got := f.value(0); got != "alta" {
		t.Errorf("after right = %q, want alta", got)
	}
	f, _ = f.update(keyType(tea.KeyRight), DefaultKeyMap)
	if got := f.value(0); got != "baja" {
		t.Errorf("right should wrap, got %q", got)
	}
	f, _ = f.update(keyType(tea.KeyLeft), DefaultKeyMap)
	if got := f.value(0); got != "alta" {
		t.Errorf("left should wrap back, got %q", got)
	}
}

func TestFormFocusSkipsHidden(t *testing.T) {
	f := newForm(textField("a", ""), textField("b", ""), textField("c", ""))
	f.setHidden(0, true)
	if f.focus != 1 {
		t.Fatalf("focus = %d after hiding the focused field, want 1", f.focus)
	}
	f, _ = f.update(keyType(tea.KeyTab), DefaultKeyMap)
	f, _ = f.update(keyType(tea.KeyTab), DefaultKeyMap)
	if f.focus != 1 {
		t.Errorf("focus = %d after wrapping, want 1", f.focus)
	}
	f, _ = f.update(keyType(tea.KeyShiftTab), DefaultKeyMap)
	if f.focus != 2 {
		t.Errorf("focus = %d after shift+tab, want 2", f.focus)
	}
}

func TestFormTypesIntoFocusedField(t *testing.T) {
	f := newForm(textField("a", ""), textField("b", ""))
	f, _ = f.update(keyRunes("hola"), DefaultKeyMap)
	f, _ = f.update(keyType(tea.KeyEnter), DefaultKeyMap)
	f, _ = f.update(keyRunes("mundo"), DefaultKeyMap)
	if f.value(0) != "hola" || f.value(1) != "mundo" {
		t.Errorf("values = %q, %q", f.value(0), f.value(1))
	}
}

func TestFormViewOmitsHidden(t *testing.T) {
	f := newForm(passwordField("Contraseña actual"), passwordField("Nueva contraseña"))
	f.setHidden(0, true)
	if got := f.View(); contains(got, "Contraseña actual") {
		t.Errorf("hidden field rendered:\n%s", got)
	}
}
