// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/searchadapter/internal/progress"
	"github.com/xataio/searchadapter/pkg/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index [collection...]",
	Short: "Indexes the records of the configured collection sources into the search index",
	RunE:  withProfiling(withSignalWatcher(index)),
	Example: `
	searchadapter index -c config.yaml
	searchadapter index -c config.yaml books --create-index --progress
	searchadapter index -c config.env --json --log-level warn`,
}

var errNoIndexableCollections = errors.New("no collection with a source to index")

func index(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := newEnvironment("index")
	if err != nil {
		return err
	}
	defer env.Close()

	collections, err := selectedCollections(args)
	if err != nil {
		return err
	}

	if cmd.Flags().Lookup("create-index").Value.String() == trueStr {
		if err := doCreateIndex(ctx, env, collections); err != nil {
			return err
		}
	}

	indexable := indexer.Indexable(collections)
	if len(indexable) == 0 {
		return errNoIndexableCollections
	}

	opts := []indexer.Option{
		indexer.WithLogger(env.logger),
		indexer.WithInstrumentation(env.instrumentation),
	}
	if cmd.Flags().Lookup("progress").Value.String() == trueStr {
		opts = append(opts, indexer.WithProgressBar(func(collection string) progress.Bar {
			return progress.NewDocumentsBar(os.Stderr, collection)
		}))
	}

	results, err := indexer.New(env.adapter, env.config, opts...).Run(ctx, indexable)
	if err != nil {
		return err
	}

	return print(cmd, indexResults(results))
}

type indexResults []indexer.Result

type indexResultJSON struct {
	Collection string  `json:"collection"`
	Documents  int     `json:"documents"`
	Seconds    float64 `json:"duration_seconds"`
}

func (r indexResults) PrettyPrint() string {
	data := pterm.TableData{{"COLLECTION", "DOCUMENTS", "DURATION"}}
	for _, res := range r {
		data = append(data, []string{
			res.Collection,
			strconv.Itoa(res.Documents),
			res.Duration.String(),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("%v", []indexer.Result(r))
	}
	return table
}

func (r indexResults) JSON() any {
	out := make([]indexResultJSON, 0, len(r))
	for _, res := range r {
		out = append(out, indexResultJSON{
			Collection: res.Collection,
			Documents:  res.Documents,
			Seconds:    res.Duration.Seconds(),
		})
	}
	return out
}
