// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Offset struct {
	Topic     string
	Partition int
	Offset    int64
}

var ErrInvalidOffsetFormat = errors.New("invalid format for kafka offset")

// OffsetOf returns the offset of the message on input.
func OffsetOf(msg *Message) *Offset {
	return &Offset{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
}

// String returns the offset in topic/partition/offset format.
func (o *Offset) String() string {
	return fmt.Sprintf("%s/%d/%d", o.Topic, o.Partition, o.Offset)
}

// ParseOffset parses an offset in topic/partition/offset format. The topic
// name can't contain slashes.
func ParseOffset(s string) (*Offset, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" {
		return nil, ErrInvalidOffsetFormat
	}
	partition, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("parsing partition: %w: %w", ErrInvalidOffsetFormat, err)
	}
	offset, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing offset: %w: %w", ErrInvalidOffsetFormat, err)
	}
	return &Offset{
		Topic:     parts[0],
		Partition: partition,
		Offset:    offset,
	}, nil
}

// LatestPerPartition keeps the highest offset for each topic partition, which
// is all a consumer group commit needs.
func LatestPerPartition(offsets []*Offset) []*Offset {
	type key struct {
		topic     string
		partition int
	}
	latest := make(map[key]int, len(offsets))
	result := make([]*Offset, 0, len(offsets))
	for _, o := range offsets {
		k := key{topic: o.Topic, partition: o.Partition}
		i, found := latest[k]
		if !found {
			latest[k] = len(result)
			result = append(result, o)
			continue
		}
		if o.Offset > result[i].Offset {
			result[i] = o
		}
	}
	return result
}
