package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewScenarioCommand groups scenario management subcommands.
func NewScenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage scenarios",
	}
	cmd.AddCommand(newScenarioGenerateCommand())
	cmd.AddCommand(newScenarioListCommand())
	cmd.AddCommand(newScenarioShowCommand())
	cmd.AddCommand(newScenarioDeleteCommand())
	cmd.AddCommand(newScenarioIngestCommand())
	return cmd
}

func newScenarioGenerateCommand() *cobra.Command {
	var (
		name      string
		theater   string
		adversary string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			body := map[string]string{"name": name}
			if theater != "" {
				body["theater"] = theater
			}
			if adversary != "" {
				body["adversary"] = adversary
			}
			if startDate != "" {
				body["startDate"] = startDate
			}
			if endDate != "" {
				body["endDate"] = endDate
			}

			var created struct {
				ID               string `json:"id"`
				Name             string `json:"name"`
				GenerationStatus string `json:"generationStatus"`
			}
			if err := newClient().Post(ctx, "/api/scenarios/generate", body, &created); err != nil {
				return err
			}

			fmt.Printf("Scenario %s accepted for generation\n", created.ID)
			fmt.Printf("  Name:   %s\n", created.Name)
			fmt.Printf("  Status: %s\n", created.GenerationStatus)
			fmt.Println("Generation runs in the background; watch progress with 'scenario show'.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "scenario name (required)")
	cmd.Flags().StringVar(&theater, "theater", "", "theater of operations")
	cmd.Flags().StringVar(&adversary, "adversary", "", "adversary nation or faction")
	cmd.Flags().StringVar(&startDate, "start", "", "campaign start (RFC3339, default: today)")
	cmd.Flags().StringVar(&endDate, "end", "", "campaign end (RFC3339, default: start + 7 days)")
	return cmd
}

type scenarioSummary struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Theater            string  `json:"theater"`
	Adversary          string  `json:"adversary"`
	GenerationStatus   string  `json:"generationStatus"`
	GenerationStep     string  `json:"generationStep"`
	GenerationProgress float64 `json:"generationProgress"`
	GenerationError    string  `json:"generationError"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
}

func newScenarioListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var scenarios []scenarioSummary
			if err := newClient().Get(ctx, "/api/scenarios", &scenarios); err != nil {
				return err
			}
			if len(scenarios) == 0 {
				fmt.Println("No scenarios found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTHEATER\tSTATUS\tSTART\tEND")
			for _, s := range scenarios {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Name, s.Theater, s.GenerationStatus, s.StartDate, s.EndDate)
			}
			return w.Flush()
		},
	}
}

func newScenarioShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scenario-id>",
		Short: "Show a scenario's generation status and contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var detail struct {
				scenarioSummary
				Missions    []map[string]interface{} `json:"missions"`
				SpaceAssets []map[string]interface{} `json:"spaceAssets"`
				Injects     []map[string]interface{} `json:"injects"`
			}
			if err := newClient().Get(ctx, "/api/scenarios/"+args[0], &detail); err != nil {
				return err
			}

			fmt.Printf("Scenario: %s (%s)\n", detail.Name, detail.ID)
			fmt.Printf("  Theater:   %s\n", detail.Theater)
			fmt.Printf("  Adversary: %s\n", detail.Adversary)
			fmt.Printf("  Window:    %s to %s\n", detail.StartDate, detail.EndDate)
			fmt.Printf("  Status:    %s", detail.GenerationStatus)
			if detail.GenerationStep != "" {
				fmt.Printf(" (step %s, %.0f%%)", detail.GenerationStep, detail.GenerationProgress*100)
			}
			fmt.Println()
			if detail.GenerationError != "" {
				fmt.Printf("  Error:     %s\n", detail.GenerationError)
			}
			fmt.Printf("  Missions: %d, space assets: %d, injects: %d\n",
				len(detail.Missions), len(detail.SpaceAssets), len(detail.Injects))
			return nil
		},
	}
}

func newScenarioDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scenario-id>",
		Short: "Delete a scenario and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var result struct {
				ID      string `json:"id"`
				Deleted bool   `json:"deleted"`
			}
			if err := newClient().Delete(ctx, "/api/scenarios/"+args[0], &result); err != nil {
				return err
			}
			fmt.Printf("Deleted scenario %s\n", result.ID)
			return nil
		},
	}
}

func newScenarioIngestCommand() *cobra.Command {
	var sourceHint string

	cmd := &cobra.Command{
		Use:   "ingest <scenario-id>",
		Short: "Ingest a document read from stdin into a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readAllStdin(cmd)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no document text on stdin")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			body := map[string]string{"text": text}
			if sourceHint != "" {
				body["sourceHint"] = sourceHint
			}

			var result struct {
				DocumentType   string         `json:"documentType"`
				HierarchyLevel string         `json:"hierarchyLevel"`
				Title          string         `json:"title"`
				Confidence     float64        `json:"confidence"`
				Counts         map[string]int `json:"counts"`
				ReviewFlags    []string       `json:"reviewFlags"`
			}
			if err := newClient().Post(ctx, "/api/scenarios/"+args[0]+"/ingest", body, &result); err != nil {
				return err
			}

			fmt.Printf("Ingested %q as %s/%s (confidence %.2f)\n",
				result.Title, result.HierarchyLevel, result.DocumentType, result.Confidence)
			for kind, n := range result.Counts {
				fmt.Printf("  %s: %d\n", kind, n)
			}
			for _, flag := range result.ReviewFlags {
				fmt.Printf("  review: %s\n", flag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceHint, "source", "", "hint about the document's origin")
	return cmd
}
