package cli

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/seed"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Preview   contract.PreviewUseCase
	Scenarios contract.ScenarioSetUseCase
	Apply     contract.ApplyUseCase
	Seeder    *seed.Seeder

	// HTTPHandler serves the JSON API for the serve command.
	HTTPHandler http.Handler
	// DefaultAddr is the listen address when --addr is not given.
	DefaultAddr string

	// Actor identifies who is running the command, recorded on mutations.
	Actor string

	// IsInteractive reports whether stdin is a terminal; the apply
	// confirmation prompt is skipped when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "sprintpilot" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sprintpilot",
		Short: "Sprint decision-exposure scenario engine",
	}

	root.PersistentFlags().StringVar(&app.Actor, "actor", app.Actor, "Acting user recorded on mutations")

	root.AddCommand(
		newPreviewCmd(app),
		newScenariosCmd(app),
		newApplyCmd(app),
		newServeCmd(app),
		newSeedCmd(app),
	)

	return root
}

func parseSprintID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("sprint id must be a positive integer, got %q", arg)
	}
	return id, nil
}

// parseNowFlag parses the optional --now date override.
func parseNowFlag(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing --now: %w", err)
	}
	return &t, nil
}
