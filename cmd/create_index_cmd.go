// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/searchadapter/pkg/indexer"
)

var createIndexCmd = &cobra.Command{
	Use:   "create-index [collection...]",
	Short: "Creates the search index and registers the mapping of the configured collections",
	Long:  "Creates the search index and registers the mapping of the configured collections. An existing index is deleted first.",
	RunE:  withSignalWatcher(createIndex),
	Example: `
	searchadapter create-index -c config.yaml
	searchadapter create-index -c config.env books films --yes`,
}

func createIndex(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := newEnvironment("create-index")
	if err != nil {
		return err
	}
	defer env.Close()

	collections, err := selectedCollections(args)
	if err != nil {
		return err
	}

	if cmd.Flags().Lookup("yes").Value.String() != trueStr {
		confirmed, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show(fmt.Sprintf("Index [%s] will be recreated if it exists. Continue?", env.adapter.Index()))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	return doCreateIndex(ctx, env, collections)
}

func doCreateIndex(ctx context.Context, env *environment, collections []*indexer.Collection) error {
	sp, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("creating index [%s]...", env.adapter.Index())).Start()
	if err := env.adapter.CreateIndex(ctx, indexer.SchemaCollections(collections), nil); err != nil {
		sp.Fail(err.Error())
		return err
	}
	sp.Success(fmt.Sprintf("index [%s] created with %d collection mappings", env.adapter.Index(), len(collections)))
	return nil
}
