// Package cli defines Cobra command definitions for the banca CLI.
// This file contains the root command, global flags, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banca-dev/banca/internal/tui"
)

var (
	dirFlag    string
	memoryFlag bool
	version    = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "banca",
	Short: "Lesson scheduling and billing for private tutors",
	Long: `Banca keeps track of your students, the lessons you schedule with
them, the time each lesson actually took, and what every student still owes.
Data lives in a local SQLite file under <dir>/.banca/.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// With a lesson running and a terminal attached, jump straight into its timer.
		if !tui.IsTTY() {
			return cmd.Help()
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		active, ok := ws.lessons.Active()
		if !ok {
			return cmd.Help()
		}
		return runTimerScreen(ws, active)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Data directory (default: home directory)")
	rootCmd.PersistentFlags().BoolVar(&memoryFlag, "memory", false, "Use a throwaway in-memory store")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(historyCmd)
}
