package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health check command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var status struct {
				Status string `json:"status"`
			}
			if err := newClient().Get(ctx, "/healthz", &status); err != nil {
				return fmt.Errorf("daemon unhealthy: %w", err)
			}

			fmt.Printf("Status: %s\n", status.Status)
			return nil
		},
	}
}
