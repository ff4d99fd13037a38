// session.go implements the "banca session" command group and the timer screen.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/lesson"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/tui/views"
	"github.com/banca-dev/banca/internal/ui"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"lesson"},
	Short:   "Run and manage individual lessons",
}

var finishNotes string

// transitionCmd builds a subcommand that applies one lifecycle step to a session.
func transitionCmd(use, short, verb string, step func(*lesson.Controller, string) (model.ClassSession, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			s, err := ws.resolveSession(args[0])
			if err != nil {
				return err
			}
			s, err = step(ws.lessons, s.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s lesson with %s (%s)\n", verb, ws.students.NameOf(s.StudentID), ui.ShortID(s.ID))
			return nil
		},
	}
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		printSessionDetail(ws, s)
		return nil
	},
}

func printSessionDetail(ws *workspace, s model.ClassSession) {
	fmt.Println(tui.TitleStyle.Render(ws.students.NameOf(s.StudentID)) + "  " + tui.StatusLabel(s.Status))
	fmt.Printf("  ID:       %s\n", s.ID)
	fmt.Printf("  Date:     %s\n", ui.FormatDate(ws.cfg.DateLayout, s.Date))
	if s.StartTime != nil {
		fmt.Printf("  Started:  %s\n", s.StartTime.Local().Format("15:04"))
	}
	if s.EndTime != nil {
		fmt.Printf("  Ended:    %s\n", s.EndTime.Local().Format("15:04"))
	}
	switch s.Status {
	case model.StatusInProgress:
		if d, err := ws.lessons.Elapsed(s.ID); err == nil {
			state := "running"
			if s.Paused {
				state = "paused"
			}
			fmt.Printf("  Elapsed:  %s (%s)\n", ui.FormatClock(d), state)
		}
	case model.StatusCompleted:
		fmt.Printf("  Duration: %d min\n", s.DurationMinutes)
		fmt.Printf("  Cost:     %s  %s\n", ui.FormatMoney(ws.cfg.Currency, s.Cost), tui.PaidLabel(s.Paid))
	}
	if s.Notes != "" {
		fmt.Printf("  Notes:    %s\n", s.Notes)
	}
}

var sessionRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a lesson",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		if err := ws.lessons.Remove(s.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted lesson %s\n", ui.ShortID(s.ID))
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish <id>",
	Short: "Finish a running lesson and compute its cost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		notes := s.Notes
		if cmd.Flags().Changed("notes") {
			notes = finishNotes
		}
		done, err := ws.lessons.Finish(s.ID, notes)
		if errors.Is(err, lesson.ErrUnknownStudent) {
			return fmt.Errorf("cannot finish: the student of this lesson was deleted")
		}
		if err != nil {
			return err
		}
		fmt.Printf("Finished lesson with %s: %d min, %s\n", ws.students.NameOf(done.StudentID),
			done.DurationMinutes, ui.FormatMoney(ws.cfg.Currency, done.Cost))
		return nil
	},
}

var sessionNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace the notes of a lesson",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		if _, err := ws.lessons.SetNotes(s.ID, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Printf("Saved notes for %s\n", ui.ShortID(s.ID))
		return nil
	},
}

var sessionSuggestCmd = &cobra.Command{
	Use:   "suggest <id>",
	Short: "Ask the assistant for an activity for this lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		text, err := ws.lessons.Suggest(cmdContext(cmd), s.ID)
		if err != nil {
			return err
		}
		fmt.Println(tui.SuggestionStyle.Render(text))
		return nil
	},
}

var sessionTimerCmd = &cobra.Command{
	Use:   "timer <id>",
	Short: "Open the interactive lesson timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveSession(args[0])
		if err != nil {
			return err
		}
		return runTimerScreen(ws, s)
	},
}

// runTimerScreen runs the timer for s and prints the outcome once it closes.
func runTimerScreen(ws *workspace, s model.ClassSession) error {
	if !tui.IsTTY() {
		return fmt.Errorf("%w; use banca session start/pause/finish instead", tui.ErrNotTTY)
	}
	final, err := tui.Run(views.NewTimerModel(ws.lessons, s, ws.students.NameOf(s.StudentID), ws.cfg.Currency))
	if err != nil {
		return err
	}
	if m, ok := final.(views.TimerModel); ok && m.Done() {
		done := m.Session()
		fmt.Printf("Finished lesson with %s: %d min, %s\n", ws.students.NameOf(done.StudentID),
			done.DurationMinutes, ui.FormatMoney(ws.cfg.Currency, done.Cost))
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	sessionFinishCmd.Flags().StringVar(&finishNotes, "notes", "", "Final lesson notes (default: keep current notes)")

	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(transitionCmd("start", "Start a scheduled lesson", "Started", (*lesson.Controller).Start))
	sessionCmd.AddCommand(transitionCmd("pause", "Pause a running lesson", "Paused", (*lesson.Controller).Pause))
	sessionCmd.AddCommand(transitionCmd("resume", "Resume a paused lesson", "Resumed", (*lesson.Controller).Resume))
	sessionCmd.AddCommand(transitionCmd("cancel", "Cancel a scheduled lesson", "Cancelled", (*lesson.Controller).Cancel))
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionNotesCmd)
	sessionCmd.AddCommand(sessionSuggestCmd)
	sessionCmd.AddCommand(sessionTimerCmd)
}
