package neoviz

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/mock"
)

// mockRunner is a testify mock of DBRunner.
type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	args := m.Called(ctx, query, params)
	result, _ := args.Get(0).(*neo4j.EagerResult)
	return result, args.Error(1)
}

func node(id int64, name string, labels ...string) neo4j.Node {
	props := map[string]any{}
	if name != "" {
		props["name"] = name
	}
	return neo4j.Node{Id: id, Labels: labels, Props: props}
}

func rel(id, from, to int64, typ string) neo4j.Relationship {
	return neo4j.Relationship{Id: id, StartId: from, EndId: to, Type: typ}
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func eager(records ...*neo4j.Record) *neo4j.EagerResult {
	return &neo4j.EagerResult{Records: records}
}
