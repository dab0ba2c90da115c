package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/sprintpilot/internal/cli/formatter"
	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// policyFlags carries the per-command guardrail override flags.
type policyFlags struct {
	minBand     string
	minDelta    float64
	maxScope    int
	allowAdds   bool
	enforce     bool
	nowOverride string
}

func (f *policyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.minBand, "min-band", "", "Minimum confidence band (low|medium|high)")
	fs.Float64Var(&f.minDelta, "min-delta", 0, "Minimum projected probability delta")
	fs.IntVar(&f.maxScope, "max-scope-changes", 0, "Maximum combined drops and adds")
	fs.BoolVar(&f.allowAdds, "allow-backlog-adds", true, "Allow pulling backlog issues into the sprint")
	fs.BoolVar(&f.enforce, "enforce-policy", true, "Reject applying scenarios that violate policy")
	fs.StringVar(&f.nowOverride, "now", "", "Evaluation date override (YYYY-MM-DD)")
}

// overrides converts only the flags the user actually set.
func (f *policyFlags) overrides(fs *pflag.FlagSet) domain.PolicyOverrides {
	var o domain.PolicyOverrides
	if fs.Changed("min-band") {
		o.MinConfidenceBand = &f.minBand
	}
	if fs.Changed("min-delta") {
		o.MinProbabilityDelta = &f.minDelta
	}
	if fs.Changed("max-scope-changes") {
		o.MaxScopeChanges = &f.maxScope
	}
	if fs.Changed("allow-backlog-adds") {
		o.AllowBacklogAdds = &f.allowAdds
	}
	if fs.Changed("enforce-policy") {
		o.EnforcePolicy = &f.enforce
	}
	return o
}

func newScenariosCmd(app *App) *cobra.Command {
	var flags policyFlags

	cmd := &cobra.Command{
		Use:   "scenarios <sprint-id>",
		Short: "Rank what-if scope scenarios with guardrail verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sprintID, err := parseSprintID(args[0])
			if err != nil {
				return err
			}
			now, err := parseNowFlag(flags.nowOverride)
			if err != nil {
				return err
			}

			resp, err := app.Scenarios.ScenarioSet(context.Background(), contract.ScenarioSetRequest{
				SprintID:  sprintID,
				Actor:     app.Actor,
				Overrides: flags.overrides(cmd.Flags()),
				Now:       now,
			})
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Sprint %d Scenarios", resp.SprintID)))
			fmt.Printf("  Recommended:      %s\n", formatter.Bold(string(resp.RecommendedScenarioID)))
			if resp.RecommendedAutoApplyScenarioID != nil {
				fmt.Printf("  Auto-apply ready: %s\n", formatter.Bold(string(*resp.RecommendedAutoApplyScenarioID)))
			} else {
				fmt.Printf("  Auto-apply ready: %s\n", formatter.Dim("none"))
			}
			fmt.Printf("  Model:            %s\n", formatter.Dim(resp.Explainability.ModelVersion))
			fmt.Println()

			headers := []string{"Scenario", "Projected", "Band", "Drops", "Adds", "Eligible"}
			rows := make([][]string, 0, len(resp.Scenarios))
			for _, sc := range resp.Scenarios {
				eligible := formatter.StyleRed.Render("no")
				if sc.PolicyResult.AutoApplyEligible {
					eligible = formatter.StyleGreen.Render("yes")
				}
				rows = append(rows, []string{
					formatter.ScenarioBadge(sc.ID, sc.DeltaVsBaseline),
					formatter.Probability(sc.ProjectedGoalProbability),
					formatter.BandIndicator(sc.ConfidenceBand),
					fmt.Sprintf("%d", sc.PolicyResult.Drops),
					fmt.Sprintf("%d", sc.PolicyResult.Adds),
					eligible,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			fmt.Println()

			for _, sc := range resp.Scenarios {
				fmt.Println(formatter.Bold(sc.Name))
				fmt.Printf("  %s\n", sc.Tradeoffs)
				fmt.Printf("  %s\n", formatter.Dim(sc.Evidence))
				if len(sc.PolicyResult.Violations) > 0 {
					fmt.Printf("  Violations: %s\n",
						formatter.StyleRed.Render(strings.Join(sc.PolicyResult.Violations, "; ")))
				}
				fmt.Println()
			}

			return nil
		},
	}

	flags.register(cmd.Flags())

	return cmd
}
