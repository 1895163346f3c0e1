// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"errors"
	"fmt"

	"github.com/xataio/searchadapter/pkg/schema"
)

var ErrUnknownCollection = errors.New("unknown collection")

// SelectCollections returns the collections with the names on input, in the
// order the names are given. No names selects all the collections.
func SelectCollections(collections []*Collection, names []string) ([]*Collection, error) {
	if len(names) == 0 {
		return collections, nil
	}

	byName := make(map[string]*Collection, len(collections))
	for _, c := range collections {
		byName[c.Name] = c
	}

	selected := make([]*Collection, 0, len(names))
	for _, name := range names {
		c, found := byName[name]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// Indexable returns the collections with a configured source.
func Indexable(collections []*Collection) []*Collection {
	indexable := make([]*Collection, 0, len(collections))
	for _, c := range collections {
		if c.Source != nil {
			indexable = append(indexable, c)
		}
	}
	return indexable
}

func SchemaCollections(collections []*Collection) []*schema.Collection {
	schemas := make([]*schema.Collection, 0, len(collections))
	for _, c := range collections {
		schemas = append(schemas, c.Collection)
	}
	return schemas
}
