// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/searchadapter/pkg/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <keywords>",
	Short: "Runs a keyword search against the search index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withSignalWatcher(searchKeywords),
	Example: `
	searchadapter search -c config.yaml "dune herbert"
	searchadapter search -c config.yaml dune --size 5 --from 10 --json`,
}

func searchKeywords(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := newEnvironment("search")
	if err != nil {
		return err
	}
	defer env.Close()

	size, err := cmd.Flags().GetInt("size")
	if err != nil {
		return err
	}
	from, err := cmd.Flags().GetInt("from")
	if err != nil {
		return err
	}

	res, err := env.adapter.Search(ctx, strings.Join(args, " "), search.SearchOptions{
		Size: size,
		From: from,
	})
	if err != nil {
		return err
	}

	return print(cmd, (*searchResult)(res))
}

type searchResult search.SearchResult

type searchResultJSON struct {
	Total int       `json:"total"`
	Hits  []hitJSON `json:"hits"`
}

type hitJSON struct {
	Index  string         `json:"index"`
	Type   string         `json:"type,omitempty"`
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}

func (r *searchResult) PrettyPrint() string {
	data := pterm.TableData{{"ID", "TYPE", "SCORE", "SOURCE"}}
	for _, h := range r.Hits {
		data = append(data, []string{
			h.ID,
			h.Type,
			strconv.FormatFloat(h.Score, 'f', 3, 64),
			fmt.Sprintf("%v", h.Source),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		table = fmt.Sprintf("%v", r.Hits)
	}
	return fmt.Sprintf("%d total hits\n%s", r.Total, table)
}

func (r *searchResult) JSON() any {
	out := searchResultJSON{
		Total: r.Total,
		Hits:  make([]hitJSON, 0, len(r.Hits)),
	}
	for _, h := range r.Hits {
		out.Hits = append(out.Hits, hitJSON(h))
	}
	return out
}
