// student.go implements the "banca student" command group.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/ui"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

// studentFlags holds the editable fields of a student.
type studentFlags struct {
	name    string
	subject string
	rate    string
	phone   string
	notes   string
}

func (f *studentFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Student name")
	cmd.Flags().StringVar(&f.subject, "subject", "", "Subject taught")
	cmd.Flags().StringVar(&f.rate, "rate", "", "Hourly rate, e.g. 50 or 62.50")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

// apply copies the flags the user set onto s.
func (f *studentFlags) apply(cmd *cobra.Command, s *model.Student) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		s.Name = f.name
	}
	if changed("subject") {
		s.Subject = f.subject
	}
	if changed("phone") {
		s.Phone = f.phone
	}
	if changed("notes") {
		s.Notes = f.notes
	}
	if changed("rate") {
		rate, err := parseRate(f.rate)
		if err != nil {
			return err
		}
		s.HourlyRate = rate
	}
	return nil
}

func parseRate(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", raw, err)
	}
	return rate, nil
}

var (
	addFlags  studentFlags
	editFlags studentFlags
)

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a student",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		var s model.Student
		if err := addFlags.apply(cmd, &s); err != nil {
			return err
		}
		saved, err := ws.students.Save(s)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", saved.Name, ui.ShortID(saved.ID))
		return nil
	},
}

var studentEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a student's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveStudent(args[0])
		if err != nil {
			return err
		}
		if err := editFlags.apply(cmd, &s); err != nil {
			return err
		}
		saved, err := ws.students.Save(s)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s (%s)\n", saved.Name, ui.ShortID(saved.ID))
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List students",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		students := ws.students.List()
		if len(students) == 0 {
			fmt.Println("No students yet. Add one with: banca student add --name ...")
			return nil
		}

		fmt.Println(tui.TitleStyle.Render("Students"))
		for _, s := range students {
			owed := ws.billing.StatementFor(s.ID).Total
			fmt.Printf("  %-8s  %-20s  %-12s  %10s/h  %-16s",
				ui.ShortID(s.ID), ui.Truncate(s.Name, 20), ui.Truncate(s.Subject, 12),
				ui.FormatMoney(ws.cfg.Currency, s.HourlyRate), s.Phone)
			if owed.IsPositive() {
				fmt.Printf("  %s", tui.WarningStyle.Render("owes "+ui.FormatMoney(ws.cfg.Currency, owed)))
			}
			fmt.Println()
		}
		return nil
	},
}

var studentRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a student (their lessons are kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		s, err := ws.resolveStudent(args[0])
		if err != nil {
			return err
		}
		if err := ws.students.Delete(s.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", s.Name)
		return nil
	},
}

func init() {
	addFlags.bind(studentAddCmd)
	_ = studentAddCmd.MarkFlagRequired("name")
	editFlags.bind(studentEditCmd)

	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentEditCmd)
	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentRmCmd)
}
