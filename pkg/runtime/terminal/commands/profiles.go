package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	profilesPath string
}

func NewProfilesCmd() *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the column-mapping profiles of an ini file",
		RunE:  pc.run,
	}
	cmd.Flags().StringVar(&pc.profilesPath, "profiles", "", "Path to an ini file of column-mapping profiles")
	_ = cmd.MarkFlagRequired("profiles")
	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := config.NewProfileRegistry(pc.profilesPath)
	if err != nil {
		return err
	}
	profiles, err := registry.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No column-mapping profiles defined")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Available column-mapping profiles:\n%s\n", strings.Join(profiles, "\n"))
	return nil
}
