package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/glabrego/tagdeck/internal/tui"
)

const startupTimeout = 15 * time.Second

var viewerFlag string

var rootCmd = &cobra.Command{
	Use:          "tagdeck",
	Short:        "Browse and equip tags from the terminal",
	Long:         `tagdeck shows the tags you may use, paged and sorted, and lets you pick your active tag or mark favorites.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		notices := newNoticeFeed()
		ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
		d, err := setup(ctx, viewerFlag, notices.sink)
		cancel()
		if err != nil {
			return err
		}
		defer d.close()

		frames := tui.NewFrameChannel()
		model := tui.NewModel(
			tui.SessionOpener(d.sessions, d.viewer, frames),
			frames,
			notices.ch,
			d.messages,
			d.notifier.Language(),
		)
		program := tea.NewProgram(model, tea.WithAltScreen())
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("tui error: %w", err)
		}
		if m, ok := final.(tui.Model); ok && m.Applied() {
			if text := notices.lastNotice(); text != "" {
				fmt.Println(text)
			}
		}
		return nil
	},
}

// noticeFeed hands notifications to the running program and remembers the
// last one so it can be printed after the alternate screen is gone.
type noticeFeed struct {
	ch   chan string
	mu   sync.Mutex
	last string
}

func newNoticeFeed() *noticeFeed {
	return &noticeFeed{ch: make(chan string, 8)}
}

func (n *noticeFeed) sink(_ uuid.UUID, text string) {
	n.mu.Lock()
	n.last = text
	n.mu.Unlock()
	select {
	case n.ch <- text:
	default:
	}
}

func (n *noticeFeed) lastNotice() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func init() {
	rootCmd.PersistentFlags().StringVar(&viewerFlag, "viewer", "", "viewer UUID (defaults to TAGDECK_VIEWER)")
	rootCmd.AddCommand(listCmd, setCmd, clearCmd, favoriteCmd, grantCmd, revokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
