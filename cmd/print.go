// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xataio/searchadapter/internal/json"
)

type printer interface {
	PrettyPrint() string
	// JSON returns the value marshalled when the --json flag is set.
	JSON() any
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if flag := cmd.Flags().Lookup("json"); flag != nil && flag.Value.String() == trueStr {
		jsonData, err := json.MarshalIndent(p.JSON(), "", "\t")
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Fprintln(cmd.OutOrStdout(), str) //nolint:forbidigo
	return nil
}
