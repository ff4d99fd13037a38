// schedule.go implements "banca schedule" and "banca today".
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/lesson"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/ui"
)

var (
	scheduleDate  string
	scheduleNotes string
	todayDate     string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <student-id>",
	Short: "Schedule a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		student, err := ws.resolveStudent(args[0])
		if err != nil {
			return err
		}
		s, err := ws.lessons.Schedule(lesson.ScheduleInput{
			StudentID: student.ID,
			Date:      scheduleDate,
			Notes:     scheduleNotes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled %s on %s (%s)\n", student.Name,
			ui.FormatDate(ws.cfg.DateLayout, s.Date), ui.ShortID(s.ID))
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List the lessons of a day (default today)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		date := todayDate
		if date == "" {
			date = ws.lessons.Today()
		} else if _, err := model.ParseDate(date); err != nil {
			return lesson.ErrInvalidDate
		}

		sessions := ws.lessons.OnDate(date)
		model.SortByDate(sessions)

		fmt.Println(tui.TitleStyle.Render("Lessons on " + ui.FormatDate(ws.cfg.DateLayout, date)))
		if len(sessions) == 0 {
			fmt.Println(tui.DimStyle.Render("  Nothing scheduled."))
			return nil
		}
		for _, s := range sessions {
			printSessionRow(ws, s)
		}
		return nil
	},
}

// printSessionRow prints a one-line summary of s.
func printSessionRow(ws *workspace, s model.ClassSession) {
	fmt.Printf("  %-8s  %-10s  %-20s  %s", ui.ShortID(s.ID),
		ui.FormatDate(ws.cfg.DateLayout, s.Date),
		ui.Truncate(ws.students.NameOf(s.StudentID), 20),
		tui.StatusLabel(s.Status))
	switch s.Status {
	case model.StatusInProgress:
		if d, err := ws.lessons.Elapsed(s.ID); err == nil {
			fmt.Printf("  %s", ui.FormatClock(d))
		}
		if s.Paused {
			fmt.Printf(" %s", tui.DimStyle.Render("(paused)"))
		}
	case model.StatusCompleted:
		fmt.Printf("  %d min  %s  %s", s.DurationMinutes,
			ui.FormatMoney(ws.cfg.Currency, s.Cost), tui.PaidLabel(s.Paid))
	}
	fmt.Println()
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleDate, "date", "", "Lesson date as YYYY-MM-DD (default today)")
	scheduleCmd.Flags().StringVar(&scheduleNotes, "notes", "", "Lesson notes")
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Show another day, YYYY-MM-DD")
}
