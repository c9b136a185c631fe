package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type simState struct {
	ScenarioID       string  `json:"scenarioId"`
	Status           string  `json:"status"`
	SimTime          string  `json:"simTime"`
	CompressionRatio float64 `json:"compressionRatio"`
	ATODay           int     `json:"atoDay"`
}

func printSimState(state simState) {
	fmt.Printf("Scenario:    %s\n", state.ScenarioID)
	fmt.Printf("Status:      %s\n", state.Status)
	fmt.Printf("Sim time:    %s\n", state.SimTime)
	fmt.Printf("ATO day:     %d\n", state.ATODay)
	fmt.Printf("Compression: %.0fx\n", state.CompressionRatio)
}

func readAllStdin(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
