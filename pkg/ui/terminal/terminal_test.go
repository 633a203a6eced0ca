package terminal

import "testing"

func TestKeyConstantsUnique(t *testing.T) {
	seen := make(map[string]Key)
	for k := KeyNone; k <= KeyCtrlZ; k++ {
		name := k.String()
		if prev, ok := seen[name]; ok {
			t.Errorf("keys %d and %d share the name %q", prev, k, name)
		}
		seen[name] = k
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyEnter, "enter"},
		{KeyF1, "f1"},
		{KeyF12, "f12"},
		{KeyCtrlC, "ctrl+c"},
		{Key(999), "Key(999)"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key(%d).String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestEventInterface(t *testing.T) {
	events := []Event{
		KeyEvent{Key: KeyRune, Rune: 'a'},
		ResizeEvent{Width: 80, Height: 24},
		MouseEvent{X: 1, Y: 2, Button: MouseLeft},
		PasteEvent{Text: "x"},
		FocusEvent{Focused: true},
		InterruptEvent{},
	}
	if len(events) != 6 {
		t.Fatal("unexpected event count")
	}
}

func TestModifiers(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Has(ModCtrl) || !m.Has(ModShift) || m.Has(ModAlt) {
		t.Errorf("unexpected modifier set %04b", m)
	}
	if !ModNone.Has(ModNone) {
		t.Error("empty set contains itself")
	}
}

func TestMouseButtonIsWheel(t *testing.T) {
	if MouseLeft.IsWheel() || !MouseWheelDown.IsWheel() || !MouseWheelRight.IsWheel() {
		t.Error("IsWheel mismatch")
	}
}
