package graph

import (
	"context"
	"log/slog"

	"github.com/neo4j-contrib/neorest/batch"
	"github.com/neo4j-contrib/neorest/entity"
	"github.com/neo4j-contrib/neorest/transport"
)

// Graph is a handle on one remote graph database service. It is the factory
// for batches and the single-query convenience used by the related-set layer.
type Graph struct {
	client transport.Client
	logger *slog.Logger
}

// Option is a functional option for configuring a Graph.
type Option func(*Graph)

// WithLogger sets the logger passed down to batches.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// New creates a Graph backed by the given transport client.
func New(client transport.Client, opts ...Option) *Graph {
	g := &Graph{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewBatch creates an empty open batch against this graph.
func (g *Graph) NewBatch() *batch.Batch {
	return batch.New(g.client, batch.WithLogger(g.logger))
}

// Query runs a single cypher query as a batch of one and returns its
// hydrated result.
func (g *Graph) Query(ctx context.Context, query string, params map[string]any) (entity.Value, error) {
	b := g.NewBatch()
	if _, err := b.AppendCypher(query, params); err != nil {
		return entity.Value{}, err
	}
	results, err := b.Submit(ctx)
	if err != nil {
		return entity.Value{}, err
	}
	return results[0].Body, nil
}

// resultRows normalizes a hydrated query result into a row list: the
// single-value reduction is undone so callers can iterate uniformly.
func resultRows(v entity.Value) [][]entity.Value {
	switch v.Kind {
	case entity.KindNull:
		return nil
	case entity.KindRow:
		return [][]entity.Value{v.Row}
	case entity.KindRows:
		return v.Rows
	default:
		return [][]entity.Value{{v}}
	}
}
