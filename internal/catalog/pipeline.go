package catalog

import (
	"context"

	"github.com/example/almajid/internal/models"
)

// Pipeline runs a listing end to end: remote fetch, local refinement, sort.
type Pipeline struct {
	builder *QueryBuilder
	onFetch func(err error)
}

// NewPipeline constructs a Pipeline over builder.
func NewPipeline(builder *QueryBuilder) *Pipeline {
	return &Pipeline{builder: builder}
}

// OnFetch registers a hook observing every fetch outcome.
func (p *Pipeline) OnFetch(fn func(err error)) {
	p.onFetch = fn
}

// List returns the products matching c. The remote store already orders the
// page; the local sort makes ties deterministic and gives name ordering byte
// semantics regardless of database collation.
func (p *Pipeline) List(ctx context.Context, c Criteria, page Page) Result {
	res := p.builder.Fetch(ctx, c, page)
	if p.onFetch != nil {
		p.onFetch(res.Err)
	}
	if res.Err != nil {
		return res
	}

	refined := Refine(res.Products, c)
	if !c.HasLocalFilters() {
		refined = make([]models.Product, len(res.Products))
		copy(refined, res.Products)
	}
	Sort(refined, c.Sort)
	return Result{Products: refined}
}

// Fetcher runs one listing request.
type Fetcher func(ctx context.Context, c Criteria) Result

// Fetcher adapts the pipeline for a View with a fixed page window.
func (p *Pipeline) Fetcher(page Page) Fetcher {
	return func(ctx context.Context, c Criteria) Result {
		return p.List(ctx, c, page)
	}
}
