package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cangtype/internal/stats"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage learner profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile and make it active",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesCreateCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesDeleteCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <id|name>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfilesUseCmd,
	})
	return cmd
}

func openProfiles(cmd *cobra.Command) (*app, error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return nil, err
	}
	return openApp(dictSettings{})
}

func runProfilesListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openProfiles(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	col := a.progress.Snapshot()
	rows := make([][]string, 0, len(col.Profiles))
	for _, p := range col.Profiles {
		marker := ""
		if p.ID == col.ActiveProfileID {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			p.ID,
			p.Name,
			fmt.Sprintf("%d", len(p.Progress.KnownUnits)),
			fmt.Sprintf("%d", p.Progress.Summary.Streak),
		})
	}
	return stats.WriteTable(cmd.OutOrStdout(), []string{"", "ID", "Name", "Known", "Streak"}, rows, 3, 4)
}

func runProfilesCreateCmd(cmd *cobra.Command, args []string) error {
	a, err := openProfiles(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.progress.CreateProfile(context.Background(), args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.Name, p.ID)
	return err
}

func runProfilesDeleteCmd(cmd *cobra.Command, args []string) error {
	a, err := openProfiles(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.progress.Resolve(args[0])
	if err != nil {
		return err
	}
	a.progress.DeleteProfile(context.Background(), p.ID)
	active := a.progress.Active()
	logErrln("Active profile:", active.Name)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s (%s)\n", p.Name, p.ID)
	return err
}

func runProfilesUseCmd(cmd *cobra.Command, args []string) error {
	a, err := openProfiles(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.progress.Resolve(args[0])
	if err != nil {
		return err
	}
	a.progress.SetActive(context.Background(), p.ID)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s (%s)\n", p.Name, p.ID)
	return err
}
