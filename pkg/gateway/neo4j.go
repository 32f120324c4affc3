package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Neo4jGateway implements Gateway over a Neo4j database via Cypher, the
// traversal dialect this package normalizes away from the rest of the
// module.
type Neo4jGateway struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jGateway opens a Neo4j driver and verifies connectivity.
func NewNeo4jGateway(ctx context.Context, uri, username, password, database string) (*Neo4jGateway, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if database == "" {
		database = "neo4j"
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return &Neo4jGateway{driver: driver, database: database}, nil
}

func (g *Neo4jGateway) Provider() GraphProvider { return ProviderNeo4j }

func (g *Neo4jGateway) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func (g *Neo4jGateway) session(ctx context.Context) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: g.database})
}

// AddVertex runs `CREATE (n:Vertex {category: $category, ...attrs}) RETURN id(n)`.
func (g *Neo4jGateway) AddVertex(ctx context.Context, category string, attrs map[string]any) (int64, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	props := cloneAttrs(attrs)
	props["category"] = category

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `CREATE (n:Vertex) SET n += $props RETURN id(n) AS id`, map[string]any{
			"props": props,
		})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		id, _ := record.Get("id")
		return id.(int64), nil
	})
	if err != nil {
		return 0, wrapNeo4jErr(err)
	}
	return result.(int64), nil
}

// AddEdge runs `MATCH (a),(b) WHERE id(a)=$out AND id(b)=$in CREATE (a)-[e:Category {...attrs}]->(b) RETURN id(e)`.
func (g *Neo4jGateway) AddEdge(ctx context.Context, category string, outID, inID int64, attrs map[string]any) (int64, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	props := cloneAttrs(attrs)
	props["category"] = category

	query := fmt.Sprintf(`
		MATCH (a:Vertex), (b:Vertex)
		WHERE id(a) = $outID AND id(b) = $inID
		CREATE (a)-[e:%s]->(b)
		SET e += $props
		RETURN id(e) AS id
	`, sanitizeLabel(category))

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"outID": outID,
			"inID":  inID,
			"props": props,
		})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		id, _ := record.Get("id")
		return id.(int64), nil
	})
	if err != nil {
		return 0, wrapNeo4jErr(err)
	}
	return result.(int64), nil
}

func (g *Neo4jGateway) SetVertexProperties(ctx context.Context, id int64, attrs map[string]any) error {
	session := g.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `MATCH (n:Vertex) WHERE id(n) = $id SET n += $props`, map[string]any{
			"id":    id,
			"props": attrs,
		})
	})
	return wrapNeo4jErr(err)
}

func (g *Neo4jGateway) SetEdgeProperties(ctx context.Context, id int64, attrs map[string]any) error {
	session := g.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `MATCH ()-[e]->() WHERE id(e) = $id SET e += $props`, map[string]any{
			"id":    id,
			"props": attrs,
		})
	})
	return wrapNeo4jErr(err)
}

func (g *Neo4jGateway) GetVertex(ctx context.Context, id int64) (*Vertex, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (n:Vertex) WHERE id(n) = $id
			OPTIONAL MATCH (n)-[oe]->(ov)
			OPTIONAL MATCH (n)<-[ie]-(iv)
			RETURN n,
			       collect(DISTINCT {id: id(oe), category: oe.category, other: id(ov), props: properties(oe)}) AS outEdges,
			       collect(DISTINCT {id: id(ie), category: ie.category, other: id(iv), props: properties(ie)}) AS inEdges
		`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		if isNoRecords(err) {
			return nil, ErrNotFound
		}
		return nil, wrapNeo4jErr(err)
	}

	record := result.(*db.Record)
	nodeVal, _ := record.Get("n")
	node, ok := nodeVal.(neo4j.Node)
	if !ok {
		return nil, ErrNotFound
	}

	v := &Vertex{
		ID:    id,
		Attrs: node.Props,
	}
	if cat, ok := node.Props["category"].(string); ok {
		v.Category = cat
	}

	if raw, ok := record.Get("outEdges"); ok {
		v.OutEdges = edgeRefsFromRaw(raw)
	}
	if raw, ok := record.Get("inEdges"); ok {
		v.InEdges = edgeRefsFromRaw(raw)
	}

	return v, nil
}

func edgeRefsFromRaw(raw any) []EdgeRef {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	refs := make([]EdgeRef, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := m["id"].(int64)
		if !ok {
			// edge was absent (no incident edges on this side)
			continue
		}
		category, _ := m["category"].(string)
		other, _ := m["other"].(int64)
		props, _ := m["props"].(map[string]any)
		refs = append(refs, EdgeRef{ID: id, Category: category, OtherID: other, Attrs: props})
	}
	return refs
}

// Run executes an arbitrary Cypher traversal with bound parameters. This is
// the primitive pkg/model composes for listing, temporal overlap checks,
// and replace/disable rewiring.
func (g *Neo4jGateway) Run(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := g.session(ctx)
	defer session.Close(ctx)

	isWrite := isWriteQuery(query)

	exec := session.ExecuteRead
	if isWrite {
		exec = session.ExecuteWrite
	}

	result, err := exec(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, wrapNeo4jErr(err)
	}

	records := result.([]*db.Record)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		row := make(Record, len(r.Keys))
		for _, key := range r.Keys {
			val, _ := r.Get(key)
			row[key] = val
		}
		out = append(out, row)
	}
	return out, nil
}

func isWriteQuery(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range []string{"CREATE", "SET ", "DELETE", "MERGE", "REMOVE"} {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func wrapNeo4jErr(err error) error {
	if err == nil {
		return nil
	}
	var neo4jErr *db.Neo4jError
	if errors.As(err, &neo4jErr) {
		if strings.Contains(neo4jErr.Code, "ConstraintValidationFailed") {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func isNoRecords(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no more records")
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func sanitizeLabel(category string) string {
	// Cypher relationship types cannot be parameterized; category strings
	// are fixed constants from pkg/gateway, never user input.
	return strings.ToUpper(category)
}
