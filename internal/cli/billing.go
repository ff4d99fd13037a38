// billing.go implements the "banca billing" command group.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/billing"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/ui"
)

var (
	payYes          bool
	messageWhatsApp bool
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Open balances, payments and billing messages",
}

var billingShowCmd = &cobra.Command{
	Use:   "show [student-id]",
	Short: "Show what a student owes (all students when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		if len(args) == 0 {
			statements := ws.billing.Outstanding()
			if len(statements) == 0 {
				fmt.Println(tui.SuccessStyle.Render("Nobody owes anything."))
				return nil
			}
			for _, st := range statements {
				printStatement(ws, st)
				fmt.Println()
			}
			return nil
		}

		id, err := ws.resolveStudentID(args[0])
		if err != nil {
			return err
		}
		printStatement(ws, ws.billing.StatementFor(id))
		return nil
	},
}

func printStatement(ws *workspace, st billing.Statement) {
	fmt.Printf("%s  %s\n", tui.TitleStyle.Render(st.Student.Name),
		tui.WarningStyle.Render(ui.FormatMoney(ws.cfg.Currency, st.Total)))
	if len(st.Sessions) == 0 {
		fmt.Println(tui.DimStyle.Render("  No unpaid lessons."))
		return
	}
	for _, s := range st.Sessions {
		fmt.Printf("  %-8s  %-10s  %4d min  %10s\n", ui.ShortID(s.ID),
			ui.FormatDate(ws.cfg.DateLayout, s.Date), s.DurationMinutes,
			ui.FormatMoney(ws.cfg.Currency, s.Cost))
	}
}

var billingPayCmd = &cobra.Command{
	Use:   "pay <student-id>",
	Short: "Mark every unpaid lesson of a student as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		id, err := ws.resolveStudentID(args[0])
		if err != nil {
			return err
		}
		st := ws.billing.StatementFor(id)
		if len(st.Sessions) == 0 {
			fmt.Printf("%s has no unpaid lessons.\n", st.Student.Name)
			return nil
		}

		total := ui.FormatMoney(ws.cfg.Currency, st.Total)
		if !payYes {
			fmt.Printf("Mark %d lesson(s) of %s as paid (%s)? [y/N]: ", len(st.Sessions), st.Student.Name, total)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		marked, err := ws.billing.MarkPaid(st.Sessions)
		if err != nil {
			return fmt.Errorf("marked %d of %d lessons before failing: %w", marked, len(st.Sessions), err)
		}
		fmt.Printf("Marked %d lesson(s) as paid, %s received from %s\n", marked, total, st.Student.Name)
		return nil
	},
}

var billingMessageCmd = &cobra.Command{
	Use:   "message <student-id>",
	Short: "Write a billing message for a student with the assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		id, err := ws.resolveStudentID(args[0])
		if err != nil {
			return err
		}
		st := ws.billing.StatementFor(id)
		msg := ws.billing.Message(cmdContext(cmd), st)
		if msg == "" {
			fmt.Printf("%s has nothing to bill.\n", st.Student.Name)
			return nil
		}

		fmt.Println(msg)
		if messageWhatsApp {
			fmt.Println()
			fmt.Println(billing.WhatsAppLink(msg))
		}
		return nil
	},
}

func init() {
	billingPayCmd.Flags().BoolVarP(&payYes, "yes", "y", false, "Skip the confirmation prompt")
	billingMessageCmd.Flags().BoolVar(&messageWhatsApp, "whatsapp", false, "Also print a WhatsApp share link")

	billingCmd.AddCommand(billingShowCmd)
	billingCmd.AddCommand(billingPayCmd)
	billingCmd.AddCommand(billingMessageCmd)
}
