package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL      string
	requestTimeout time.Duration
)

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wargame-ctl",
		Short: "Control a running wargame daemon",
		Long:  "Command-line control surface for the wargame simulation daemon.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", getDefaultServerURL(),
		"base URL of the wargame daemon")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 30*time.Second,
		"per-request timeout")

	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewScenarioCommand())
	rootCmd.AddCommand(NewSimCommand())

	return rootCmd
}

func getDefaultServerURL() string {
	if url := os.Getenv("WARGAME_SERVER"); url != "" {
		return url
	}
	return "http://localhost:3001"
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *DaemonClient {
	return NewDaemonClient(serverURL, requestTimeout)
}
