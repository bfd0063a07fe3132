package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/observability"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type queryOutput struct {
	Nodes []models.GraphNode `json:"nodes" yaml:"nodes"`
	Edges any                `json:"edges" yaml:"edges"`
}

func newQueryCmd() *cobra.Command {
	var (
		decorate bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "query <cypher>",
		Short: "Run a Cypher query and print the deduplicated graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			cfg := config.Get()
			exec, err := openExecutor(cfg.Neo4j)
			if err != nil {
				return err
			}
			defer exec.Close(cmd.Context())

			svc := newGraphService(exec, cfg.Graph, observability.GetLogger(), nil)
			graph, err := svc.RunCypher(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), svc, graph, decorate, output)
		},
	}
	cmd.Flags().BoolVar(&decorate, "decorate", false, "attach curvature to every edge")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func writeGraph(w io.Writer, svc *neoviz.GraphService, graph *models.GraphResult, decorate bool, format string) error {
	out := queryOutput{Nodes: graph.Nodes, Edges: graph.Edges}
	if decorate {
		out.Edges = svc.Decorate(graph.Edges)
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
