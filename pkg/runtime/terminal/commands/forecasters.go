package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/spf13/cobra"
)

type ForecastersCmd struct {
	registry forecast.Registry
}

func NewForecastersCmd(registry forecast.Registry) *cobra.Command {
	fc := &ForecastersCmd{registry: registry}
	return &cobra.Command{
		Use:   "forecasters",
		Short: "List the available forecasting methods",
		RunE:  fc.run,
	}
}

func (fc *ForecastersCmd) run(cmd *cobra.Command, _ []string) error {
	methods := fc.registry.List()
	if len(methods) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No forecasting methods registered")
		return nil
	}

	for i, m := range methods {
		if m == forecast.DefaultMethod {
			methods[i] = m + " (default)"
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Available forecasting methods:\n%s\n", strings.Join(methods, "\n"))
	return nil
}
