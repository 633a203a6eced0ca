package runtime

import "slices"

// FocusScope tracks keyboard focus over an ordered set of widgets. Focus
// changes call Focus and Blur and also deliver FocusIn and FocusOut events,
// so widgets can handle focus either way.
type FocusScope struct {
	widgets []Focusable
	current int // -1 when nothing is focused
}

// NewFocusScope creates a new empty focus scope.
func NewFocusScope() *FocusScope {
	return &FocusScope{current: -1}
}

// CollectFocus builds a scope from every Focusable in the tree under root,
// in paint order. Nothing is focused until asked.
func CollectFocus(root Widget) *FocusScope {
	f := NewFocusScope()
	f.Rebuild(root)
	return f
}

// Rebuild replaces the registered widgets with the Focusables under root.
// The focused widget keeps focus if it is still in the tree; otherwise it is
// blurred.
func (f *FocusScope) Rebuild(root Widget) {
	prev := f.Current()

	var found []Focusable
	Walk(root, func(w Widget) bool {
		if fw, ok := w.(Focusable); ok {
			found = append(found, fw)
		}
		return true
	})

	f.widgets = found
	f.current = -1
	if prev == nil {
		return
	}
	if i := slices.Index(found, prev); i >= 0 {
		f.current = i
		return
	}
	blur(prev)
}

// Register adds a focusable widget to the end of the scope.
func (f *FocusScope) Register(w Focusable) {
	if w == nil || slices.Contains(f.widgets, w) {
		return
	}
	f.widgets = append(f.widgets, w)
}

// Unregister removes a widget from the scope. If it was focused, focus moves
// to the first focusable widget left.
func (f *FocusScope) Unregister(w Focusable) {
	i := slices.Index(f.widgets, w)
	if i < 0 {
		return
	}
	wasFocused := f.current == i
	if wasFocused {
		blur(w)
		f.current = -1
	} else if f.current > i {
		f.current--
	}
	f.widgets = slices.Delete(f.widgets, i, i+1)
	if wasFocused {
		f.FocusFirst()
	}
}

// Widgets returns the registered widgets in order.
func (f *FocusScope) Widgets() []Focusable {
	return f.widgets
}

// Current returns the currently focused widget, or nil.
func (f *FocusScope) Current() Focusable {
	if f.current >= 0 && f.current < len(f.widgets) {
		return f.widgets[f.current]
	}
	return nil
}

// SetFocus focuses a specific widget. Returns true if focus changed.
func (f *FocusScope) SetFocus(w Focusable) bool {
	i := slices.Index(f.widgets, w)
	if i < 0 || !w.CanFocus() {
		return false
	}
	return f.focusIndex(i)
}

// FocusFirst focuses the first focusable widget.
func (f *FocusScope) FocusFirst() bool {
	for i, w := range f.widgets {
		if w.CanFocus() {
			return f.focusIndex(i)
		}
	}
	return false
}

// FocusLast focuses the last focusable widget.
func (f *FocusScope) FocusLast() bool {
	for i := len(f.widgets) - 1; i >= 0; i-- {
		if f.widgets[i].CanFocus() {
			return f.focusIndex(i)
		}
	}
	return false
}

// FocusNext moves focus forward, wrapping at the end.
func (f *FocusScope) FocusNext() bool {
	return f.step(1)
}

// FocusPrev moves focus backward, wrapping at the start.
func (f *FocusScope) FocusPrev() bool {
	return f.step(-1)
}

func (f *FocusScope) step(dir int) bool {
	n := len(f.widgets)
	if n == 0 {
		return false
	}
	start := f.current
	if start < 0 {
		if dir > 0 {
			start = -1
		} else {
			start = n
		}
	}
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if f.widgets[idx].CanFocus() {
			return f.focusIndex(idx)
		}
	}
	return false
}

// ClearFocus removes focus from the current widget.
func (f *FocusScope) ClearFocus() {
	if w := f.Current(); w != nil {
		blur(w)
	}
	f.current = -1
}

// Count returns the number of registered widgets.
func (f *FocusScope) Count() int {
	return len(f.widgets)
}

func (f *FocusScope) focusIndex(i int) bool {
	if i == f.current {
		return false
	}
	if w := f.Current(); w != nil {
		blur(w)
	}
	f.current = i
	w := f.widgets[i]
	w.Focus()
	w.Event(FocusIn{})
	return true
}

func blur(w Focusable) {
	w.Blur()
	w.Event(FocusOut{})
}
