package gateway_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/stretchr/testify/require"
)

// connectNeo4jOrSkip mirrors the graph-driver integration tests in the
// wider pack: these exercise a real database and are skipped when one
// isn't reachable, rather than failing the suite. Set NEO4J_URI (and
// optionally NEO4J_USER/NEO4J_PASSWORD) to run them for real.
func connectNeo4jOrSkip(t *testing.T) *gateway.Neo4jGateway {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	user := os.Getenv("NEO4J_USER")
	password := os.Getenv("NEO4J_PASSWORD")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gw, err := gateway.NewNeo4jGateway(ctx, uri, user, password, "neo4j")
	if err != nil {
		t.Skipf("neo4j not available at %s: %v", uri, err)
	}
	return gw
}

func TestNeo4jGatewayAddAndGetVertex(t *testing.T) {
	gw := connectNeo4jOrSkip(t)
	defer gw.Close(context.Background())

	ctx := context.Background()
	id, err := gw.AddVertex(ctx, "component_type", map[string]any{"name": "integration-test-antenna"})
	require.NoError(t, err)

	v, err := gw.GetVertex(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "integration-test-antenna", v.Attrs["name"])
}
