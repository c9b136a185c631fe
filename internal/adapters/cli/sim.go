package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSimCommand groups simulation control subcommands.
func NewSimCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Control the running simulation",
	}
	cmd.AddCommand(newSimStatusCommand())
	cmd.AddCommand(newSimStartCommand())
	cmd.AddCommand(newSimTransitionCommand("pause", "Pause the simulation clock"))
	cmd.AddCommand(newSimTransitionCommand("resume", "Resume a paused simulation"))
	cmd.AddCommand(newSimTransitionCommand("stop", "Stop the simulation"))
	cmd.AddCommand(newSimSeekCommand())
	cmd.AddCommand(newSimSpeedCommand())
	return cmd
}

func newSimStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current simulation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var state simState
			if err := newClient().Get(ctx, "/api/simulation", &state); err != nil {
				return err
			}
			printSimState(state)
			return nil
		},
	}
}

func newSimStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <scenario-id>",
		Short: "Start simulating a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var state simState
			body := map[string]string{"scenarioId": args[0]}
			if err := newClient().Post(ctx, "/api/simulation/start", body, &state); err != nil {
				return err
			}
			printSimState(state)
			return nil
		},
	}
}

func newSimTransitionCommand(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var state simState
			if err := newClient().Post(ctx, "/api/simulation/"+verb, struct{}{}, &state); err != nil {
				return err
			}
			printSimState(state)
			return nil
		},
	}
}

func newSimSeekCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "seek",
		Short: "Jump the simulation clock to a point in time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse(time.RFC3339, target); err != nil {
				return fmt.Errorf("--time must be RFC3339: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var state simState
			body := map[string]string{"time": target}
			if err := newClient().Post(ctx, "/api/simulation/seek", body, &state); err != nil {
				return err
			}
			printSimState(state)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "time", "", "target sim time (RFC3339)")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newSimSpeedCommand() *cobra.Command {
	var ratio float64

	cmd := &cobra.Command{
		Use:   "speed",
		Short: "Change the time compression ratio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ratio <= 0 {
				return fmt.Errorf("--ratio must be positive")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var state simState
			body := map[string]float64{"ratio": ratio}
			if err := newClient().Post(ctx, "/api/simulation/speed", body, &state); err != nil {
				return err
			}
			printSimState(state)
			return nil
		},
	}

	cmd.Flags().Float64Var(&ratio, "ratio", 0, "sim seconds per real second")
	_ = cmd.MarkFlagRequired("ratio")
	return cmd
}
