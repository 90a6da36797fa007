package actions

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/session"
)

const actionTimeout = 10 * time.Second

// Session is the part of a view session the interactive host drives.
type Session interface {
	NextPage() (bool, error)
	PreviousPage() (bool, error)
	Select(ctx context.Context, tagID string) (selection.Outcome, error)
	ToggleFavorite(ctx context.Context, tagID string) (bool, selection.Outcome, error)
	ClearActive(ctx context.Context) (selection.Outcome, error)
	Close()
}

// Opener opens a session for the host's viewer, replacing the open one.
type Opener func(ctx context.Context, keyword string, favorites bool) (Session, error)

type OpenSuccessMsg struct {
	Session   Session
	Keyword   string
	Favorites bool
}

type OpenErrorMsg struct {
	Err       error
	Favorites bool
}

type PageMsg struct {
	Moved bool
}

type SelectSuccessMsg struct {
	TagID   string
	Outcome selection.Outcome
}

type ToggleFavoriteSuccessMsg struct {
	TagID    string
	Favorite bool
	Outcome  selection.Outcome
}

type ClearSuccessMsg struct {
	Outcome selection.Outcome
}

type ActionErrorMsg struct {
	Err error
}

type FrameMsg struct {
	Frame session.Frame
}

type NoticeMsg struct {
	Text string
}

func OpenCmd(open Opener, keyword string, favorites bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		s, err := open(ctx, keyword, favorites)
		if err != nil {
			return OpenErrorMsg{Err: err, Favorites: favorites}
		}
		return OpenSuccessMsg{Session: s, Keyword: keyword, Favorites: favorites}
	}
}

func NextPageCmd(s Session) tea.Cmd {
	return func() tea.Msg {
		moved, err := s.NextPage()
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return PageMsg{Moved: moved}
	}
}

func PreviousPageCmd(s Session) tea.Cmd {
	return func() tea.Msg {
		moved, err := s.PreviousPage()
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return PageMsg{Moved: moved}
	}
}

func SelectCmd(s Session, tagID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		outcome, err := s.Select(ctx, tagID)
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return SelectSuccessMsg{TagID: tagID, Outcome: outcome}
	}
}

func ToggleFavoriteCmd(s Session, tagID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		favorite, outcome, err := s.ToggleFavorite(ctx, tagID)
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return ToggleFavoriteSuccessMsg{TagID: tagID, Favorite: favorite, Outcome: outcome}
	}
}

func ClearCmd(s Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		outcome, err := s.ClearActive(ctx)
		if err != nil {
			return ActionErrorMsg{Err: err}
		}
		return ClearSuccessMsg{Outcome: outcome}
	}
}

// WaitFrameCmd delivers the next frame pushed by the session. The model
// re-issues it after every FrameMsg.
func WaitFrameCmd(frames <-chan session.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return nil
		}
		return FrameMsg{Frame: f}
	}
}

func WaitNoticeCmd(notices <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-notices
		if !ok {
			return nil
		}
		return NoticeMsg{Text: text}
	}
}
