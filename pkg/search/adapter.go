// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"fmt"

	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/schema"
)

// Adapter bridges collections and their documents with a search engine sink.
// It holds no per run state, runs are started with StartRun.
type Adapter struct {
	logger      loglib.Logger
	sink        Sink
	cfg         Config
	index       string
	normalizers map[schema.LogicalType]Normalizer
	idGenerator IDGenerator
}

type Option func(*Adapter)

func NewAdapter(sink Sink, cfg Config, opts ...Option) (*Adapter, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		logger: loglib.NewNoopLogger(),
		sink:   sink,
		cfg:    cfg,
		index:  cfg.ActiveIndex(),
		normalizers: map[schema.LogicalType]Normalizer{
			schema.Date: NewDateNormalizer(),
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(a *Adapter) {
		a.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "search_adapter",
		})
	}
}

// WithNormalizer attaches a normalizer to the fields of the given logical
// type, replacing any normalizer already attached to it. A nil normalizer
// detaches it.
func WithNormalizer(t schema.LogicalType, n Normalizer) Option {
	return func(a *Adapter) {
		if n == nil {
			delete(a.normalizers, t)
			return
		}
		a.normalizers[t] = n
	}
}

// WithIDGenerator sets the generator used for records without an id. If not
// set, the search engine assigns ids to those documents.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Adapter) {
		a.idGenerator = g
	}
}

// Index returns the name of the active index.
func (a *Adapter) Index() string {
	return a.index
}

// CreateIndex (re)creates the active index and registers the mapping of each
// of the collections on input. The settings are merged on top of the default
// index settings. The first failure aborts the operation.
func (a *Adapter) CreateIndex(ctx context.Context, collections []*schema.Collection, settings map[string]any) error {
	for _, c := range collections {
		if c == nil {
			return errNilCollection
		}
	}

	settings = a.cfg.indexSettings(settings)
	a.logger.Info("creating search index", loglib.Fields{
		"index":       a.index,
		"settings":    settings,
		"collections": len(collections),
	})
	if err := a.sink.CreateIndex(ctx, a.index, settings); err != nil {
		return fmt.Errorf("creating index [%s]: %w", a.index, err)
	}

	for _, c := range collections {
		for _, w := range c.Schema.Warnings() {
			a.logger.Warn(nil, w, loglib.Fields{"collection": c.Name})
		}
		mapping := MapSchema(c)
		if err := a.sink.PutMapping(ctx, a.index, mapping); err != nil {
			return fmt.Errorf("putting mapping for collection %s on index [%s]: %w", c.Name, a.index, err)
		}
		a.logger.Debug("collection mapping created", loglib.Fields{
			"index":      a.index,
			"collection": c.Name,
			"type":       mapping.CollectionType,
			"fields":     len(mapping.Fields),
		})
	}

	return nil
}

// Search forwards the keywords to the search engine and returns its result
// unchanged.
func (a *Adapter) Search(ctx context.Context, keywords string, opts SearchOptions) (*SearchResult, error) {
	res, err := a.sink.Search(ctx, a.index, keywords, opts)
	if err != nil {
		return nil, fmt.Errorf("searching index [%s]: %w", a.index, err)
	}
	return res, nil
}

// Delete removes the active index.
func (a *Adapter) Delete(ctx context.Context) error {
	a.logger.Info("deleting search index", loglib.Fields{"index": a.index})
	if err := a.sink.DeleteIndex(ctx, a.index); err != nil {
		return fmt.Errorf("deleting index [%s]: %w", a.index, err)
	}
	return nil
}

// StartRun returns a new indexing run for the collection, with an empty
// document buffer.
func (a *Adapter) StartRun(collection *schema.Collection) (*Run, error) {
	if collection == nil {
		return nil, errNilCollection
	}
	return &Run{
		adapter:    a,
		collection: collection,
		docType:    collection.DocumentType(),
		buffer:     NewBuffer(),
		state:      RunStateIdle,
		logger: a.logger.WithFields(loglib.Fields{
			"collection": collection.Name,
			"index":      a.index,
		}),
	}, nil
}

func (a *Adapter) buildDocument(collection *schema.Collection, docType string, record Record) Document {
	doc := Document{
		Index:  a.index,
		Type:   docType,
		ID:     record.ID,
		Boost:  record.Boost,
		Fields: NewFields(),
	}
	if doc.ID == "" && a.idGenerator != nil {
		doc.ID = a.idGenerator.NewID()
	}

	if record.Boost != nil {
		doc.Fields.Set(BoostField, *record.Boost)
	}

	for _, v := range record.Values {
		field, found := collection.Schema.FieldByID(v.FieldID)
		if !found {
			a.logger.Debug("skipping value for unknown field", loglib.Fields{
				"collection": collection.Name,
				"field_id":   v.FieldID,
			})
			continue
		}
		value := v.Value
		if n, found := a.normalizers[field.Type]; found {
			value = n.Normalize(value)
		}
		doc.Fields.Set(field.Name, value)
	}

	return doc
}
