package barplot

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ScreenFactory creates the terminal screen a session draws on.
type ScreenFactory func() (tcell.Screen, error)

// active serialises sessions: terminal mode is process-wide, so only one
// plot may own the screen at a time.
var active sync.Mutex

// Session owns the terminal from OpenSession until Close. It is not safe for
// concurrent use.
type Session struct {
	screen tcell.Screen
	closed bool
}

// OpenSession acquires the terminal: raw input without echo, hidden cursor,
// no mouse reporting and a cleared screen. It blocks while another session is
// open. On failure nothing has been drawn and the error wraps ErrNoTerminal.
func OpenSession(newScreen ScreenFactory) (*Session, error) {
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	active.Lock()

	screen, err := newScreen()
	if err != nil {
		active.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	if err := screen.Init(); err != nil {
		active.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	screen.HideCursor()
	screen.DisableMouse()
	screen.Clear()
	return &Session{screen: screen}, nil
}

// Surface is the screen to draw on while the session is open.
func (s *Session) Surface() Surface {
	return s.screen
}

// Size returns the live terminal size as rows, columns.
func (s *Session) Size() (rows, cols int) {
	cols, rows = s.screen.Size()
	return rows, cols
}

// Wait shows what has been drawn and blocks until a key is pressed. There is
// no timeout.
func (s *Session) Wait() {
	if s.closed {
		return
	}
	s.screen.Show()
	for {
		switch s.screen.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Close restores the terminal and releases the session lock. Calling it more
// than once is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
	active.Unlock()
}
