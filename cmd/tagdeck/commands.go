package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/session"
)

var (
	listPage      int
	listKeyword   string
	listFavorites bool
	clearYes      bool
)

func printSink(w io.Writer) func(uuid.UUID, string) {
	return func(_ uuid.UUID, text string) {
		fmt.Fprintln(w, text)
	}
}

// withDeps builds the dependencies for one command run and tears them down
// afterwards.
func withDeps(cmd *cobra.Command, run func(ctx context.Context, d *deps) error) error {
	setupCtx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
	d, err := setup(setupCtx, viewerFlag, printSink(cmd.OutOrStdout()))
	cancel()
	if err != nil {
		return err
	}
	defer d.close()
	return run(cmd.Context(), d)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of your tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			var frame session.Frame
			render := session.RendererFunc(func(f session.Frame) {
				if !f.Closed {
					frame = f
				}
			})

			var (
				s   *session.Session
				err error
			)
			if listFavorites {
				s, err = d.sessions.OpenFavorites(ctx, d.viewer, listKeyword, render)
			} else {
				s, err = d.sessions.Open(ctx, d.viewer, listKeyword, render)
			}
			if err != nil {
				return err
			}
			defer s.Close()

			for i := 1; i < listPage; i++ {
				moved, err := s.NextPage()
				if err != nil {
					return err
				}
				if !moved {
					break
				}
			}
			return printFrame(cmd.OutOrStdout(), d, frame)
		})
	},
}

func printFrame(w io.Writer, d *deps, f session.Frame) error {
	lang := d.notifier.Language()
	fmt.Fprintln(w, f.Title)
	if len(f.Items) == 0 {
		fmt.Fprintln(w, d.messages.Text(lang, "no-tags"))
		return nil
	}
	locked := d.messages.Text(lang, "gui-locked")
	for _, item := range f.Items {
		marks := [2]string{" ", " "}
		if item.Favorite {
			marks[0] = "★"
		}
		if item.Active {
			marks[1] = "●"
		}
		line := fmt.Sprintf("%s%s %-20s %s", marks[0], marks[1], item.Tag.ID, item.Label)
		if item.Locked {
			line += " [" + locked + "]"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, d.messages.Format(lang, "list-header", map[string]string{"count": fmt.Sprint(f.Total)}))
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <tag>",
	Short: "Make a tag your active tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			t, err := d.service.Lookup(args[0])
			if err != nil {
				return err
			}
			outcome, err := d.controller.SetActive(ctx, d.viewer, t)
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), d, outcome, t.Label(0))
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your active tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			lang := d.notifier.Language()
			if !d.menu.EnableClear {
				fmt.Fprintln(cmd.OutOrStdout(), d.messages.Text(lang, "clear-disabled"))
				return nil
			}
			current, ok, err := d.service.ActiveTag(ctx, d.viewer)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), d.messages.Text(lang, "gui-active-none"))
				return nil
			}

			if !clearYes {
				confirmed := false
				err := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title(fmt.Sprintf("Clear %s as your active tag?", current.Label(0))).
							Value(&confirmed),
					),
				).Run()
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			outcome, err := d.controller.ClearActive(ctx, d.viewer)
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), d, outcome, current.Label(0))
		})
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <tag>",
	Short: "Add a tag to your favorites, or remove it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			t, err := d.service.Lookup(args[0])
			if err != nil {
				return err
			}
			_, outcome, err := d.controller.ToggleFavorite(ctx, d.viewer, t)
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), d, outcome, t.Label(0))
		})
	},
}

// reportOutcome prints why a change did not happen. Applied changes are
// reported by the notifier.
func reportOutcome(w io.Writer, d *deps, outcome selection.Outcome, label string) error {
	lang := d.notifier.Language()
	switch outcome {
	case selection.OutcomeDenied:
		fmt.Fprintln(w, d.messages.Format(lang, "no-permission", map[string]string{"tag": label}))
	case selection.OutcomeCancelled:
		fmt.Fprintln(w, d.messages.Text(lang, "action-cancelled"))
	}
	return nil
}

var grantCmd = &cobra.Command{
	Use:   "grant <viewer> <permission>",
	Short: "Grant a permission node to a viewer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("viewer must be a UUID: %w", err)
		}
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			if err := d.service.Grant(ctx, viewer, args[1]); err != nil {
				return err
			}
			return printGrants(ctx, cmd.OutOrStdout(), d, viewer)
		})
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <viewer> <permission>",
	Short: "Revoke a permission node from a viewer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("viewer must be a UUID: %w", err)
		}
		return withDeps(cmd, func(ctx context.Context, d *deps) error {
			if err := d.service.Revoke(ctx, viewer, args[1]); err != nil {
				return err
			}
			return printGrants(ctx, cmd.OutOrStdout(), d, viewer)
		})
	},
}

func printGrants(ctx context.Context, w io.Writer, d *deps, viewer uuid.UUID) error {
	grants, err := d.service.Grants(ctx, viewer)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		fmt.Fprintf(w, "%s has no grants\n", viewer)
		return nil
	}
	fmt.Fprintf(w, "%s: %s\n", viewer, strings.Join(grants, ", "))
	return nil
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to print (1-based)")
	listCmd.Flags().StringVarP(&listKeyword, "keyword", "k", "", "only tags whose name contains keyword")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "list favorites only")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}
