package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is either a text input or, when choices is set, a value cycled
// with left/right.
type formField struct {
	label   string
	input   textinput.Model
	choices []string
	choice  int
	hidden  bool
}

// form is a vertical list of fields with a single focus.
type form struct {
	fields []formField
	focus  int
}

func textField(label, placeholder string) formField {
	return formField{label: label, input: newTextInput(placeholder)}
}

func passwordField(label string) formField {
	return formField{label: label, input: newPasswordInput("")}
}

func choiceField(label string, choices []string, selected string) formField {
	f := formField{label: label, choices: choices}
	for i, c := range choices {
		if c == selected {
			f.choice = i
		}
	}
	return f
}

func newForm(fields ...formField) form {
	f := form{fields: fields}
	f.focusFirst()
	return f
}

func (f *form) focusFirst() {
	f.focus = -1
	f.move(1)
}

// value returns the text or selected choice of field i.
func (f form) value(i int) string {
	fd := f.fields[i]
	if fd.choices != nil {
		return fd.choices[fd.choice]
	}
	return fd.input.Value()
}

func (f *form) setValue(i int, v string) {
	fd := &f.fields[i]
	if fd.choices != nil {
		for j, c := range fd.choices {
			if c == v {
				fd.choice = j
			}
		}
		return
	}
	fd.input.SetValue(v)
}

func (f *form) setHidden(i int, hidden bool) {
	f.fields[i].hidden = hidden
	if hidden && f.focus == i {
		f.move(1)
	}
}

// move shifts focus by delta, skipping hidden fields and wrapping.
func (f *form) move(delta int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	if f.focus >= 0 && f.focus < n && f.fields[f.focus].choices == nil {
		f.fields[f.focus].input.Blur()
	}
	next := f.focus
	for range n {
		next = (next + delta + n) % n
		if !f.fields[next].hidden {
			break
		}
	}
	f.focus = next
	if f.fields[next].choices == nil {
		f.fields[next].input.Focus()
	}
}

// update routes a key to the focused field. Submission is left to the caller.
func (f form) update(msg tea.KeyMsg, keys KeyMap) (form, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.NextField):
		f.move(1)
		return f, nil
	case key.Matches(msg, keys.PrevField):
		f.move(-1)
		return f, nil
	}
	fd := &f.fields[f.focus]
	if fd.choices != nil {
		switch {
		case key.Matches(msg, keys.Left):
			fd.choice = (fd.choice - 1 + len(fd.choices)) % len(fd.choices)
		case key.Matches(msg, keys.Right), msg.String() == " ":
			fd.choice = (fd.choice + 1) % len(fd.choices)
		case msg.Type == tea.KeyEnter:
			f.move(1)
		}
		return f, nil
	}
	if msg.Type == tea.KeyEnter {
		f.move(1)
		return f, nil
	}
	var cmd tea.Cmd
	fd.input, cmd = fd.input.Update(msg)
	return f, cmd
}

func (f form) View() string {
	width := 0
	for _, fd := range f.fields {
		if !fd.hidden && len([]rune(fd.label)) > width {
			width = len([]rune(fd.label))
		}
	}
	var b strings.Builder
	for i, fd := range f.fields {
		if fd.hidden {
			continue
		}
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-*s", width, fd.label))
		var value string
		if fd.choices != nil {
			value = accentStyle.Render("‹ ") + normalStyle.Render(fd.choices[fd.choice]) + accentStyle.Render(" ›")
		} else {
			value = fd.input.View()
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, label, value)
	}
	return b.String()
}
