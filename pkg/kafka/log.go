// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"fmt"

	"github.com/segmentio/kafka-go"
	loglib "github.com/xataio/searchadapter/pkg/log"
)

var clientFields = loglib.Fields{"client": "kafka-go"}

// newClientLogger routes the kafka-go client logs to the trace level, they
// are too verbose for anything else.
func newClientLogger(logger loglib.Logger) kafka.LoggerFunc {
	return func(msg string, args ...any) {
		logger.Trace(fmt.Sprintf(msg, args...), clientFields)
	}
}

func newClientErrorLogger(logger loglib.Logger) kafka.LoggerFunc {
	return func(msg string, args ...any) {
		logger.Error(nil, fmt.Sprintf(msg, args...), clientFields)
	}
}
