package neoviz

import "github.com/saulfrancisco-ruizacevedo/go-neoviz/models"

// Default curvature: the first edge of a direction bows by 0.15 and every further
// parallel edge adds 0.15.
const (
	DefaultCurvatureBase = 0.15
	DefaultCurvatureStep = 0.15
)

type curvatureConfig struct {
	base float64
	step float64
}

// CurvatureOption tunes DecorateEdges.
type CurvatureOption func(*curvatureConfig)

// WithCurvature sets the amount of the first edge in a direction (base) and the
// increment for each further parallel edge (step). Non-positive values keep the
// defaults.
func WithCurvature(base, step float64) CurvatureOption {
	return func(c *curvatureConfig) {
		if base > 0 {
			c.base = base
		}
		if step > 0 {
			c.step = step
		}
	}
}

type bucketKey struct{ lo, hi int64 }

// edgeBucket groups the edges between one unordered pair of nodes.
type edgeBucket struct {
	forward []models.GraphEdge // lo -> hi, self-loops included
	reverse []models.GraphEdge // hi -> lo
}

// DecorateEdges assigns each edge a curvature so that edges sharing the same two
// endpoints stay visually separable.
//
// Edges are bucketed by their unordered endpoint pair; relationship type plays no
// part. Inside a bucket, edges running from the lower id to the higher id curve
// clockwise and the others counter-clockwise, each direction getting
// base, base+step, base+2*step, ... in input order. Buckets are emitted in
// first-seen order, forward edges before reverse ones. A self-loop has equal
// endpoints and is therefore treated as forward.
//
// Parameters:
//   - edges: Deduplicated edges, typically GraphResult.Edges.
//   - opts: Optional curvature tuning.
//
// Returns:
//
//	One RenderableEdge per input edge; an empty, non-nil slice for no input.
func DecorateEdges(edges []models.GraphEdge, opts ...CurvatureOption) []models.RenderableEdge {
	cfg := curvatureConfig{base: DefaultCurvatureBase, step: DefaultCurvatureStep}
	for _, opt := range opts {
		opt(&cfg)
	}

	buckets := make(map[bucketKey]*edgeBucket)
	order := make([]bucketKey, 0)
	for _, e := range edges {
		key := bucketKey{lo: min(e.From, e.To), hi: max(e.From, e.To)}
		b, ok := buckets[key]
		if !ok {
			b = &edgeBucket{}
			buckets[key] = b
			order = append(order, key)
		}
		if e.From == key.lo {
			b.forward = append(b.forward, e)
		} else {
			b.reverse = append(b.reverse, e)
		}
	}

	out := make([]models.RenderableEdge, 0, len(edges))
	for _, key := range order {
		b := buckets[key]
		for i, e := range b.forward {
			out = append(out, models.RenderableEdge{
				GraphEdge: e,
				Curvature: models.Curvature{Direction: models.Clockwise, Amount: cfg.amount(i)},
			})
		}
		for i, e := range b.reverse {
			out = append(out, models.RenderableEdge{
				GraphEdge: e,
				Curvature: models.Curvature{Direction: models.CounterClockwise, Amount: cfg.amount(i)},
			})
		}
	}
	return out
}

func (c curvatureConfig) amount(i int) float64 {
	return c.base + float64(i)*c.step
}
