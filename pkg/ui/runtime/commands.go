package runtime

// Command is an event result the App acts on itself. Widgets return one
// from Event; any other non-nil result is passed to AppConfig.OnResult.
type Command interface {
	isCommand()
}

// Quit stops the application loop.
type Quit struct{}

// Refresh forces a full repaint of the terminal.
type Refresh struct{}

// FocusNext moves focus to the next focusable widget.
type FocusNext struct{}

// FocusPrev moves focus to the previous focusable widget.
type FocusPrev struct{}

// PushOverlay pushes a layer above the current ones. A modal overlay takes
// all input until popped.
type PushOverlay struct {
	Widget Widget
	Modal  bool
}

// PopOverlay removes the top overlay.
type PopOverlay struct{}

// Bell rings the terminal bell.
type Bell struct{}

// Batch runs several commands in order.
type Batch []Command

func (Quit) isCommand()        {}
func (Refresh) isCommand()     {}
func (FocusNext) isCommand()   {}
func (FocusPrev) isCommand()   {}
func (PushOverlay) isCommand() {}
func (PopOverlay) isCommand()  {}
func (Bell) isCommand()        {}
func (Batch) isCommand()       {}
