// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes the search index",
	RunE:  withSignalWatcher(deleteIndex),
	Example: `
	searchadapter delete -c config.yaml
	searchadapter delete -c config.env --yes`,
}

func deleteIndex(ctx context.Context, cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment("delete")
	if err != nil {
		return err
	}
	defer env.Close()

	if cmd.Flags().Lookup("yes").Value.String() != trueStr {
		confirmed, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show(fmt.Sprintf("Delete index [%s]?", env.adapter.Index()))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	sp, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("deleting index [%s]...", env.adapter.Index())).Start()
	if err := env.adapter.Delete(ctx); err != nil {
		sp.Fail(err.Error())
		return err
	}
	sp.Success(fmt.Sprintf("index [%s] deleted", env.adapter.Index()))
	return nil
}
