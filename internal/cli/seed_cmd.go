package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintpilot/internal/cli/formatter"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with a demo project and sprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Seeder == nil {
				return fmt.Errorf("seeder not configured")
			}
			summary, err := app.Seeder.Run(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Seeded demo workspace"))
			fmt.Printf("  Project:   #%d\n", summary.ProjectID)
			fmt.Printf("  Sprint:    #%d\n", summary.SprintID)
			fmt.Printf("  Issues:    %d\n", summary.Issues)
			fmt.Printf("  Decisions: %d\n", summary.Decisions)
			fmt.Printf("  Blockers:  %d\n", summary.Blockers)
			return nil
		},
	}
}
