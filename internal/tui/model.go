package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/session"
	"github.com/glabrego/tagdeck/internal/tui/actions"
	tuistate "github.com/glabrego/tagdeck/internal/tui/state"
	tuitheme "github.com/glabrego/tagdeck/internal/tui/theme"
	tuiview "github.com/glabrego/tagdeck/internal/tui/view"
)

const statusTTL = 3 * time.Second

// Messages resolves the viewer-facing texts the model shows itself.
type Messages interface {
	Text(lang, key string) string
	Format(lang, key string, placeholders map[string]string) string
}

type clearStatusMsg struct {
	id int
}

type Model struct {
	open    actions.Opener
	frames  <-chan session.Frame
	notices <-chan string
	msgs    Messages
	lang    string
	theme   tuitheme.Theme

	session       actions.Session
	frame         session.Frame
	hasFrame      bool
	cursor        int
	keyword       string
	favoritesView bool

	search    textinput.Model
	searching bool

	showNumbers bool
	applied     bool
	loading     bool
	status      string
	statusID    int
	err         error
	width       int
	height      int
}

func NewModel(open actions.Opener, frames <-chan session.Frame, notices <-chan string, msgs Messages, lang string) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "keyword"
	ti.CharLimit = 64
	ti.Width = 32

	return Model{
		open:    open,
		frames:  frames,
		notices: notices,
		msgs:    msgs,
		lang:    lang,
		theme:   tuitheme.Default(),
		search:  ti,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{actions.WaitFrameCmd(m.frames)}
	if m.notices != nil {
		cmds = append(cmds, actions.WaitNoticeCmd(m.notices))
	}
	if m.open != nil {
		cmds = append(cmds, actions.OpenCmd(m.open, m.keyword, m.favoritesView))
	}
	return tea.Batch(cmds...)
}

// Applied reports whether the program ended on an applied selection or clear.
func (m Model) Applied() bool { return m.applied }

func (m Model) Keyword() string { return m.keyword }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	case actions.OpenSuccessMsg:
		m.session = msg.Session
		m.keyword = msg.Keyword
		m.favoritesView = msg.Favorites
		m.loading = false
		m.err = nil
		return m, nil
	case actions.OpenErrorMsg:
		m.loading = false
		if errors.Is(msg.Err, session.ErrFavoritesViewDisabled) {
			return m.setStatus(m.msgs.Text(m.lang, "favorites-disabled"))
		}
		m.err = msg.Err
		return m, nil
	case actions.FrameMsg:
		if !msg.Frame.Closed {
			m.applyFrame(msg.Frame)
		}
		return m, actions.WaitFrameCmd(m.frames)
	case actions.NoticeMsg:
		next, cmd := m.setStatus(msg.Text)
		return next, tea.Batch(cmd, actions.WaitNoticeCmd(m.notices))
	case actions.PageMsg:
		if msg.Moved {
			m.cursor = 0
		}
		return m, nil
	case actions.SelectSuccessMsg:
		return m.afterOutcome(msg.Outcome, msg.TagID, true)
	case actions.ToggleFavoriteSuccessMsg:
		return m.afterOutcome(msg.Outcome, msg.TagID, false)
	case actions.ClearSuccessMsg:
		if msg.Outcome == selection.OutcomeDenied {
			return m.setStatus(m.msgs.Text(m.lang, "clear-disabled"))
		}
		return m.afterOutcome(msg.Outcome, "", true)
	case actions.ActionErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m.quit()
	case "down", "j":
		m.cursor = tuistate.ClampCursor(m.cursor+1, len(m.frame.Items))
		return m, nil
	case "up", "k":
		m.cursor = tuistate.ClampCursor(m.cursor-1, len(m.frame.Items))
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "G":
		m.cursor = tuistate.ClampCursor(len(m.frame.Items)-1, len(m.frame.Items))
		return m, nil
	case "N":
		m.showNumbers = !m.showNumbers
		return m, nil
	}

	if m.session == nil {
		return m, nil
	}
	switch msg.String() {
	case "n", "right", "l", "pgdown":
		return m, actions.NextPageCmd(m.session)
	case "p", "left", "h", "pgup":
		return m, actions.PreviousPageCmd(m.session)
	case "enter":
		if item, ok := m.currentItem(); ok {
			return m, actions.SelectCmd(m.session, item.Tag.ID)
		}
		return m, nil
	case "f":
		if item, ok := m.currentItem(); ok {
			return m, actions.ToggleFavoriteCmd(m.session, item.Tag.ID)
		}
		return m, nil
	case "c":
		return m, actions.ClearCmd(m.session)
	case "v":
		m.loading = true
		return m, actions.OpenCmd(m.open, m.keyword, !m.favoritesView)
	case "/":
		m.searching = true
		m.search.SetValue(m.keyword)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "ctrl+l":
		if m.keyword == "" {
			return m, nil
		}
		m.loading = true
		return m, actions.OpenCmd(m.open, "", m.favoritesView)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		keyword := strings.TrimSpace(m.search.Value())
		if keyword == m.keyword {
			return m, nil
		}
		m.loading = true
		return m, actions.OpenCmd(m.open, keyword, m.favoritesView)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.session.Close()
	}
	return m, tea.Quit
}

func (m Model) afterOutcome(outcome selection.Outcome, tagID string, closes bool) (tea.Model, tea.Cmd) {
	switch outcome {
	case selection.OutcomeApplied:
		if closes {
			m.applied = true
			return m, tea.Quit
		}
		return m, nil
	case selection.OutcomeCancelled:
		return m.setStatus(m.msgs.Text(m.lang, "action-cancelled"))
	default:
		return m.setStatus(m.msgs.Format(m.lang, "no-permission", map[string]string{"tag": m.labelFor(tagID)}))
	}
}

func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = text
	return m, clearStatusCmd(m.statusID, statusTTL)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) applyFrame(f session.Frame) {
	m.cursor = tuistate.SyncedCursor(m.frame.Items, f.Items, m.cursor)
	m.frame = f
	m.hasFrame = true
	m.loading = false
}

func (m Model) currentItem() (session.Item, bool) {
	if len(m.frame.Items) == 0 {
		return session.Item{}, false
	}
	return m.frame.Items[tuistate.ClampCursor(m.cursor, len(m.frame.Items))], true
}

func (m Model) labelFor(tagID string) string {
	if i := tuistate.CursorForTag(m.frame.Items, tagID); i >= 0 {
		return m.frame.Items[i].Label
	}
	return tagID
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) View() string {
	var b strings.Builder
	title := m.frame.Title
	if title == "" {
		title = "Tags"
	}
	b.WriteString(tuiview.Header(title, m.favoritesView, m.theme))
	b.WriteString("\n")
	if m.searching {
		b.WriteString(tuiview.SearchLine(m.msgs.Text(m.lang, "gui-search"), m.search.View(), m.theme))
	}
	b.WriteString("\n")

	switch {
	case !m.hasFrame && m.loading:
		b.WriteString("Loading tags...\n")
	case len(m.frame.Items) == 0:
		b.WriteString(m.msgs.Text(m.lang, "no-tags"))
		b.WriteString("\n")
	default:
		b.WriteString(m.listBody())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(m.frame.Page, m.frame.PageCount, m.frame.Total, m.keyword, m.activeLabel(), m.theme))
	b.WriteString("\n")
	b.WriteString(m.theme.MetaLabel.Render(m.msgs.Text(m.lang, "gui-footer")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) listBody() string {
	items := m.frame.Items
	cursor := tuistate.ClampCursor(m.cursor, len(items))
	start, end := tuistate.CenteredWindow(len(items), cursor, tuistate.BodyHeight(m.height, m.status != "" || m.err != nil))
	locked := m.msgs.Text(m.lang, "gui-locked")
	width := m.contentWidth()
	return tuiview.RenderListBody(tuiview.ListRenderInput{
		Items:  items,
		Start:  start,
		End:    end,
		Cursor: cursor,
		RenderLine: func(item session.Item, pos int, active bool) string {
			return tuiview.RenderTagLine(tuiview.TagLineParams{
				Item:        item,
				Cursor:      active,
				ShowNumbers: m.showNumbers,
				Pos:         pos,
				LockedLabel: locked,
				Width:       width,
			}, m.theme)
		},
	})
}

func (m Model) statusLine() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.StatusLine(m.loading, m.err != nil, m.status, warning, m.theme)
}

func (m Model) activeLabel() string {
	if m.frame.Active == "" {
		return m.msgs.Text(m.lang, "gui-active-none")
	}
	return m.msgs.Format(m.lang, "gui-active", map[string]string{"tag": m.labelFor(m.frame.Active)})
}
