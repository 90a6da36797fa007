package tui

import (
	"context"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/session"
	"github.com/glabrego/tagdeck/internal/tui/actions"
)

// FrameChannel is a session renderer that hands frames to the program. It
// never blocks: an undelivered frame is replaced by the newer one.
type FrameChannel chan session.Frame

func NewFrameChannel() FrameChannel {
	return make(FrameChannel, 1)
}

func (c FrameChannel) Render(f session.Frame) {
	for {
		select {
		case c <- f:
			return
		default:
		}
		select {
		case <-c:
		default:
		}
	}
}

// SessionOpener adapts a session manager to the model for one viewer.
func SessionOpener(mgr *session.Manager, viewer uuid.UUID, renderer session.Renderer) actions.Opener {
	return func(ctx context.Context, keyword string, favorites bool) (actions.Session, error) {
		var (
			s   *session.Session
			err error
		)
		if favorites {
			s, err = mgr.OpenFavorites(ctx, viewer, keyword, renderer)
		} else {
			s, err = mgr.Open(ctx, viewer, keyword, renderer)
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
