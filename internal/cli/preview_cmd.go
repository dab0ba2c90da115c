package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintpilot/internal/cli/formatter"
	"github.com/alexanderramin/sprintpilot/internal/contract"
)

func newPreviewCmd(app *App) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "preview <sprint-id>",
		Short: "Show sprint health, risks and the decision-exposure heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sprintID, err := parseSprintID(args[0])
			if err != nil {
				return err
			}
			now, err := parseNowFlag(nowFlag)
			if err != nil {
				return err
			}

			resp, err := app.Preview.Preview(context.Background(), contract.PreviewRequest{
				SprintID: sprintID,
				Actor:    app.Actor,
				Now:      now,
			})
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Sprint %d Preview", resp.SprintID)))
			fmt.Printf("  Goal probability: %s %s\n",
				formatter.Probability(resp.GoalProbability),
				formatter.BandIndicator(resp.ConfidenceBand))
			fmt.Printf("  Completion:       %s of issues done, %s of time elapsed\n",
				formatter.Pct(resp.Signals.CompletionPct),
				formatter.Pct(resp.Signals.TimeElapsedPct))
			fmt.Printf("  In progress:      %d of %d issues\n",
				resp.Signals.InProgressIssues, resp.Signals.TotalIssues)
			fmt.Printf("  Unresolved:       %d decisions, %d active blockers\n",
				resp.Signals.UnresolvedDecisions, resp.Signals.ActiveBlockers)
			fmt.Println()

			if len(resp.Risks) > 0 {
				lines := make([]string, 0, len(resp.Risks))
				for _, risk := range resp.Risks {
					lines = append(lines, "• "+risk)
				}
				fmt.Println(formatter.RenderBox("Risks", strings.Join(lines, "\n")))
				fmt.Println()
			}

			if len(resp.DecisionExposureHeatmap) > 0 {
				fmt.Println(formatter.Header("Decision Exposure Heatmap"))
				headers := []string{"Heat", "Key", "Title", "Status", "Exposure"}
				rows := make([][]string, 0, len(resp.DecisionExposureHeatmap))
				for _, e := range resp.DecisionExposureHeatmap {
					rows = append(rows, []string{
						formatter.HeatCell(e.HeatScore),
						e.Key,
						e.Title,
						formatter.IssueStatusPill(e.Status),
						fmt.Sprintf("%.1f", e.Exposure),
					})
				}
				fmt.Print(formatter.RenderTable(headers, rows))
				fmt.Println()
			}

			printSuggestions("Suggested drops", resp.ScopeSwap.SuggestedDrops)
			printSuggestions("Suggested adds", resp.ScopeSwap.SuggestedAdds)

			return nil
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "Evaluation date override (YYYY-MM-DD)")

	return cmd
}

func printSuggestions(title string, suggestions []contract.IssueSuggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Println(formatter.Bold(title))
	for _, s := range suggestions {
		fmt.Printf("  %s %s %s\n",
			formatter.Dim(s.Key),
			s.Title,
			formatter.Dim(fmt.Sprintf("(score %.1f, exposure %.1f)", s.Score, s.Exposure)))
	}
	fmt.Println()
}
