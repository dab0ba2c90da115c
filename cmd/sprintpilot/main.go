package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/sprintpilot/internal/cli"
	"github.com/alexanderramin/sprintpilot/internal/db"
	"github.com/alexanderramin/sprintpilot/internal/httpapi"
	"github.com/alexanderramin/sprintpilot/internal/repository"
	"github.com/alexanderramin/sprintpilot/internal/seed"
	"github.com/alexanderramin/sprintpilot/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.sprintpilot/sprintpilot.db
	dbPath := os.Getenv("SPRINTPILOT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sprintpilot", "sprintpilot.db")
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Operator policy defaults, overridable per request.
	basePolicy, err := service.LoadPolicyDefaults(os.Getenv("SPRINTPILOT_POLICY"))
	if err != nil {
		return err
	}

	addr := os.Getenv("SPRINTPILOT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Wire repositories and the unit of work for transactional operations.
	repos := repository.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	loader := service.NewSnapshotLoader(repos.Projects, repos.Sprints, repos.Issues, repos.Decisions, repos.Blockers)

	access := service.AllowAllAccess{}
	observer := service.NewLogUseCaseObserver(os.Stderr)

	previewSvc := service.NewPreviewService(loader, access, observer)
	scenarioSvc := service.NewScenarioService(loader, access, basePolicy, observer)
	applySvc := service.NewApplyService(uow, repository.NewSQLiteRepos, access, service.NoopNotifier{}, basePolicy, observer)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	apiServer := httpapi.NewServer(previewSvc, scenarioSvc, applySvc, logger)

	actor := os.Getenv("USER")
	if actor == "" {
		actor = "cli"
	}

	app := &cli.App{
		Preview:     previewSvc,
		Scenarios:   scenarioSvc,
		Apply:       applySvc,
		Seeder:      &seed.Seeder{UoW: uow, Repos: repository.NewSQLiteRepos},
		HTTPHandler: apiServer.Handler(),
		DefaultAddr: addr,
		Actor:       actor,
	}

	// Detect interactive terminal for the apply confirmation prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
