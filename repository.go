package neoviz

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"go.uber.org/zap"
)

// ErrNotFound is a sentinel error returned when a query that must match existing
// nodes matches nothing.
var ErrNotFound = errors.New("record not found")

// ErrInvalidIdentifier is returned for a label or relationship type that cannot
// be safely written into a Cypher statement.
var ErrInvalidIdentifier = errors.New("invalid cypher identifier")

// ErrMissingName is returned when a node is created without a name.
var ErrMissingName = errors.New("node name is required")

const (
	DefaultNodeLabel        = "Person"
	DefaultRelationshipType = "FRIEND_OF"
	DefaultListLimit        = 1000
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s may be used as a node label or relationship
// type. Labels and types cannot be query parameters, so they are interpolated and
// must be restricted.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// NodeInput describes a node to create.
type NodeInput struct {
	Label     string
	Name      string
	AvatarURL string
}

// RelationInput describes a relationship to create between two existing nodes.
type RelationInput struct {
	FromID int64
	ToID   int64
	Type   string
}

// Repository runs the editing operations of the viewer against Neo4j: listing
// nodes, creating nodes and relationships, and deleting nodes.
type Repository struct {
	runner DBRunner
	logger *zap.Logger
}

// NewRepository creates a repository on top of the given runner. A nil logger
// disables logging.
func NewRepository(runner DBRunner, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{runner: runner, logger: logger}
}

// ListNodes returns up to limit nodes ordered by name, falling back to the id
// for unnamed nodes. A non-positive limit selects DefaultListLimit.
func (r *Repository) ListNodes(ctx context.Context, limit int) ([]models.GraphNode, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	const query = `MATCH (n)
RETURN n
ORDER BY coalesce(n.name, toString(id(n))) ASC
LIMIT $limit`

	result, err := r.runner.Run(ctx, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	return MapRowsToGraph(RowsFromRecords(recordsOf(result))).Nodes, nil
}

// CreateNode creates a single node and returns it as mapped by MapRowsToGraph.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - in: The node to create. Label defaults to DefaultNodeLabel; Name is required.
//
// Returns:
//
//	The created node, ErrInvalidIdentifier for a bad label, or any error from the
//	query building or execution.
func (r *Repository) CreateNode(ctx context.Context, in NodeInput) (*models.GraphNode, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	label := in.Label
	if label == "" {
		label = DefaultNodeLabel
	}
	if !ValidIdentifier(label) {
		return nil, fmt.Errorf("%w: label %q", ErrInvalidIdentifier, label)
	}

	props := map[string]any{"name": in.Name}
	if in.AvatarURL != "" {
		props["avatar_url"] = in.AvatarURL
	}

	query, params, err := gocypher.NewQueryBuilder().
		Create(gocypher.N("n", label).WithProperties(props)).
		Return("n").
		Build()
	if err != nil {
		return nil, fmt.Errorf("could not build query: %w", err)
	}

	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	nodes := MapRowsToGraph(RowsFromRecords(recordsOf(result))).Nodes
	if len(nodes) == 0 {
		return nil, fmt.Errorf("create returned no node: %w", ErrNotFound)
	}

	r.logger.Info("node created", zap.Int64("id", nodes[0].ID), zap.String("label", label))
	return &nodes[0], nil
}

// CreateRelation merges a relationship of the given type between two nodes
// identified by their Neo4j ids, and returns both endpoints and the relationship.
// ErrNotFound is returned when either node does not exist.
func (r *Repository) CreateRelation(ctx context.Context, in RelationInput) (*models.GraphResult, error) {
	relType := in.Type
	if relType == "" {
		relType = DefaultRelationshipType
	}
	if !ValidIdentifier(relType) {
		return nil, fmt.Errorf("%w: relationship type %q", ErrInvalidIdentifier, relType)
	}

	query := fmt.Sprintf(`MATCH (a),(b)
WHERE id(a) = $from AND id(b) = $to
MERGE (a)-[r:%s]->(b)
RETURN a, r, b`, relType)

	result, err := r.runner.Run(ctx, query, map[string]any{"from": in.FromID, "to": in.ToID})
	if err != nil {
		return nil, err
	}
	if len(recordsOf(result)) == 0 {
		return nil, ErrNotFound
	}

	r.logger.Info("relationship merged",
		zap.Int64("from", in.FromID),
		zap.Int64("to", in.ToID),
		zap.String("type", relType),
	)
	return MapRowsToGraph(RowsFromRecords(recordsOf(result))), nil
}

// DeleteNode removes a node by id together with all its relationships.
// ErrNotFound is returned when no node has that id.
func (r *Repository) DeleteNode(ctx context.Context, id int64) error {
	const query = `MATCH (n)
WHERE id(n) = $id
DETACH DELETE n
RETURN count(*) AS deleted`

	result, err := r.runner.Run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return err
	}
	if countOf(recordsOf(result), "deleted") == 0 {
		return ErrNotFound
	}
	r.logger.Info("node deleted", zap.Int64("id", id))
	return nil
}

// countOf reads an integer column from the first record, or 0.
func countOf(records []*neo4j.Record, key string) int64 {
	if len(records) == 0 || records[0] == nil {
		return 0
	}
	v, ok := records[0].Get(key)
	if !ok {
		return 0
	}
	n, _ := toInt64(v)
	return n
}
