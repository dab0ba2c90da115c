package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintpilot/internal/cli/formatter"
	"github.com/alexanderramin/sprintpilot/internal/contract"
	"github.com/alexanderramin/sprintpilot/internal/domain"
)

func newApplyCmd(app *App) *cobra.Command {
	var (
		flags       policyFlags
		scenarioArg string
		autoApply   bool
		dropIDs     []int64
		addIDs      []int64
		noFollowups bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "apply <sprint-id>",
		Short: "Apply a scenario or an explicit drop/add plan to a sprint",
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

			useScenario := autoApply || scenarioArg != ""
			if !useScenario && len(dropIDs) == 0 && len(addIDs) == 0 {
				return fmt.Errorf("nothing to apply: pass --scenario, --auto, or explicit --drop/--add lists")
			}

			if !yes && app.IsInteractive != nil && app.IsInteractive() {
				ok, err := confirmApply(sprintID, useScenario, scenarioArg, autoApply, dropIDs, addIDs)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(formatter.Dim("Aborted."))
					return nil
				}
			}

			ctx := context.Background()
			if useScenario {
				req := contract.ScenarioApplyRequest{
					SprintID:  sprintID,
					Actor:     app.Actor,
					AutoApply: autoApply,
					Overrides: flags.overrides(cmd.Flags()),
					Now:       now,
				}
				if scenarioArg != "" {
					id := domain.ScenarioID(scenarioArg)
					req.ScenarioID = &id
				}
				if cmd.Flags().Changed("drop") {
					req.DropIssueIDs = dropIDs
				}
				if cmd.Flags().Changed("add") {
					req.AddIssueIDs = addIDs
				}
				resp, err := app.Apply.ApplyScenario(ctx, req)
				if err != nil {
					return err
				}
				fmt.Println(formatter.Header(fmt.Sprintf("Applied %s", resp.ScenarioID)))
				printApplyResult(&resp.ApplyPlanResponse)
				return nil
			}

			followups := !noFollowups
			resp, err := app.Apply.ApplyPlan(ctx, contract.ApplyPlanRequest{
				SprintID:                sprintID,
				Actor:                   app.Actor,
				DropIssueIDs:            dropIDs,
				AddIssueIDs:             addIDs,
				CreateDecisionFollowups: &followups,
				Now:                     now,
			})
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Applied plan"))
			printApplyResult(resp)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&scenarioArg, "scenario", "", "Scenario to apply (baseline|scope_swap|focus_mode)")
	cmd.Flags().BoolVar(&autoApply, "auto", false, "Apply the recommended policy-eligible scenario")
	cmd.Flags().Int64SliceVar(&dropIDs, "drop", nil, "Issue ids to drop from the sprint")
	cmd.Flags().Int64SliceVar(&addIDs, "add", nil, "Backlog issue ids to pull into the sprint")
	cmd.Flags().BoolVar(&noFollowups, "no-followups", false, "Skip creating decision follow-up tasks")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func confirmApply(sprintID int64, useScenario bool, scenarioArg string, autoApply bool, dropIDs, addIDs []int64) (bool, error) {
	what := fmt.Sprintf("drop %d and add %d issues", len(dropIDs), len(addIDs))
	if useScenario {
		what = fmt.Sprintf("apply scenario %q", scenarioArg)
		if autoApply {
			what = "auto-apply the recommended scenario"
		}
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Sprint %d: %s?", sprintID, what)).
				Description("This modifies sprint scope and may create follow-up tasks.").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return confirmed, nil
}

func printApplyResult(resp *contract.ApplyPlanResponse) {
	fmt.Printf("  Dropped:    %d\n", resp.DroppedCount)
	for _, m := range resp.Dropped {
		fmt.Printf("    %s %s\n", formatter.Dim(fmt.Sprintf("#%d", m.ID)), m.Key)
	}
	fmt.Printf("  Added:      %d\n", resp.AddedCount)
	for _, m := range resp.Added {
		fmt.Printf("    %s %s\n", formatter.Dim(fmt.Sprintf("#%d", m.ID)), m.Key)
	}
	fmt.Printf("  Follow-ups: %d\n", resp.FollowUpsCount)
	for _, m := range resp.FollowUps {
		fmt.Printf("    %s\n", m.Title)
	}
}
