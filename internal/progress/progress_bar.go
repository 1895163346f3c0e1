// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

type Bar interface {
	Add(int) error
	Close() error
}

type ProgressBar struct {
	*progressbar.ProgressBar
}

// NewDocumentsBar returns a bar counting the documents read for a
// collection. The total is unknown until the source is exhausted, so the bar
// renders as a spinner with the running count.
func NewDocumentsBar(w io.Writer, description string) *ProgressBar {
	return &ProgressBar{
		ProgressBar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("docs"),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetWidth(20),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetDescription(description),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(w, "\n")
			}),
			progressbar.OptionSpinnerType(14),
		),
	}
}

