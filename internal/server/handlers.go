package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/view"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
	"go.uber.org/zap"
)

// GraphReader loads and decorates graphs. *neoviz.GraphService satisfies it.
type GraphReader interface {
	LoadSnapshot(ctx context.Context) (*neoviz.Snapshot, error)
	RunCypher(ctx context.Context, query string, params map[string]any) (*models.GraphResult, error)
	Decorate(edges []models.GraphEdge) []models.RenderableEdge
}

// GraphEditor changes the graph. *neoviz.Repository satisfies it.
type GraphEditor interface {
	ListNodes(ctx context.Context, limit int) ([]models.GraphNode, error)
	CreateNode(ctx context.Context, in neoviz.NodeInput) (*models.GraphNode, error)
	CreateRelation(ctx context.Context, in neoviz.RelationInput) (*models.GraphResult, error)
	DeleteNode(ctx context.Context, id int64) error
}

type cypherRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
}

type createNodeRequest struct {
	Label     string `json:"label" binding:"omitempty,cypherident"`
	Name      string `json:"name" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

type createRelRequest struct {
	FromID *int64 `json:"fromId" binding:"required"`
	ToID   *int64 `json:"toId" binding:"required"`
	Type   string `json:"type" binding:"omitempty,cypherident"`
}

// graphResponse is the body of GET /api/graph.
type graphResponse struct {
	view.Network
	Source  string `json:"source"`
	Physics struct {
		Enabled bool   `json:"enabled"`
		Toggle  string `json:"toggle"`
	} `json:"physics"`
}

// HealthCheck reports that the process is serving.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LoadGraph serves a rendered snapshot. The physics query parameter overrides
// the default display options for this render only.
func LoadGraph(graphs GraphReader, defaults view.Options, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := defaults
		if raw := c.Query("physics"); raw != "" {
			physics, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "physics must be a boolean"})
				return
			}
			opts.Physics = physics
		}

		snap, err := graphs.LoadSnapshot(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := graphResponse{
			Network: view.Render(snap.Graph, graphs.Decorate(snap.Graph.Edges), opts),
			Source:  snap.Source,
		}
		resp.Physics.Enabled = opts.Physics
		resp.Physics.Toggle = opts.PhysicsButtonText()
		c.JSON(http.StatusOK, resp)
	}
}

// RunCypher executes a raw query and returns the mapped graph.
func RunCypher(graphs GraphReader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cypherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		graph, err := graphs.RunCypher(c.Request.Context(), req.Query, req.Params)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, graph)
	}
}

// ListNodes returns nodes for the relationship form selectors.
func ListNodes(editor GraphEditor, limit int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		nodes, err := editor.ListNodes(c.Request.Context(), limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"nodes": nodes})
	}
}

// CreateNode creates a node from the node form.
func CreateNode(editor GraphEditor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createNodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, "missing 'name'")})
			return
		}
		created, err := editor.CreateNode(c.Request.Context(), neoviz.NodeInput{
			Label:     req.Label,
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"created": created})
	}
}

// CreateRelation merges a relationship between two existing nodes.
func CreateRelation(editor GraphEditor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, "missing 'fromId' or 'toId'")})
			return
		}
		graph, err := editor.CreateRelation(c.Request.Context(), neoviz.RelationInput{
			FromID: *req.FromID,
			ToID:   *req.ToID,
			Type:   req.Type,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "nodes": graph.Nodes, "edges": graph.Edges})
	}
}

// DeleteNode removes a node and its relationships.
func DeleteNode(editor GraphEditor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "node id must be an integer"})
			return
		}
		if err := editor.DeleteNode(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, neoviz.ErrEmptyQuery),
		errors.Is(err, neoviz.ErrInvalidIdentifier),
		errors.Is(err, neoviz.ErrMissingName):
		return http.StatusBadRequest
	case errors.Is(err, neoviz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, neoviz.ErrGraphUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	msg := err.Error()
	if errors.Is(err, neoviz.ErrGraphUnavailable) {
		msg = neoviz.ErrGraphUnavailable.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("graph operation failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// bindingMessage keeps a precise message for malformed identifiers and uses
// fallback for every other binding failure.
func bindingMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "cypherident" {
				return "label and relationship type must match [A-Za-z_][A-Za-z0-9_]*"
			}
		}
	}
	return fallback
}
