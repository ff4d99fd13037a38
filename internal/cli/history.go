// history.go implements the "banca history" command that reads the event log.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent activity from the event log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		logger, err := log.NewLogger(dir)
		if err != nil {
			return err
		}
		events, err := logger.ReadAll()
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}
		if historyLimit > 0 && len(events) > historyLimit {
			events = events[len(events)-historyLimit:]
		}
		for _, e := range events {
			fmt.Println(formatEvent(e))
		}
		return nil
	},
}

// formatEvent renders one log line for display.
func formatEvent(e log.LogEvent) string {
	var parts []string
	parts = append(parts, tui.DimStyle.Render(e.Time.Local().Format("2006-01-02 15:04")))
	parts = append(parts, fmt.Sprintf("%-18s", e.Event))
	if e.StudentID != "" {
		parts = append(parts, "student="+ui.ShortID(e.StudentID))
	}
	if e.SessionID != "" {
		parts = append(parts, "session="+ui.ShortID(e.SessionID))
	}
	if e.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", e.DurationMinutes))
	}
	if e.Sessions > 0 {
		parts = append(parts, fmt.Sprintf("%d lesson(s)", e.Sessions))
	}
	if e.Amount != "" {
		parts = append(parts, e.Amount)
	}
	if e.Error != "" {
		parts = append(parts, tui.ErrorStyle.Render(e.Error))
	}
	return strings.Join(parts, "  ")
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of most recent events to show (0 for all)")
}
