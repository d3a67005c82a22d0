package cmd

import (
	"context"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gfscan/gfscan/form"
	"github.com/gfscan/gfscan/report"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formCmd)
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Scan from a full screen terminal form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := setup(); err != nil {
			return err
		}

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		openLog := func() (*report.LogFile, error) {
			return report.OpenLogFile(outputPath)
		}

		_, err = tea.NewProgram(form.New(ctx, cfg, openLog), tea.WithAltScreen()).Run()
		return err
	},
}
