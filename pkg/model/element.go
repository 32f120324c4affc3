package model

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// Element holds the four lifecycle attributes every persisted vertex and
// edge carries (spec §3): when it was created, when (if ever) it was
// logically deleted, whether it is currently live, and what succeeded it.
type Element struct {
	id           int64
	TimeAdded    int64
	TimeDisabled int64
	Active       bool
	Replacement  int64
}

func newElement() Element {
	return Element{id: gateway.VirtualID, TimeDisabled: gateway.DisabledNever}
}

// ID returns the gateway vertex ID, or gateway.VirtualID if not yet added.
func (e *Element) ID() int64 { return e.id }

// AddedToDB reports whether this in-memory object has a concrete backing
// vertex. Kind-specific wrappers additionally consult a uniqueness query so
// that two distinct not-yet-added objects describing the same persisted
// name are recognized as already added (spec §4.3).
func (e *Element) AddedToDB() bool { return e.id != gateway.VirtualID }

func (e *Element) markAdded(id int64, now int64) {
	e.id = id
	e.TimeAdded = now
	e.TimeDisabled = gateway.DisabledNever
	e.Active = true
	e.Replacement = 0
}

func (e *Element) markDisabled(disableTime int64) {
	e.Active = false
	e.TimeDisabled = disableTime
}

func nowUnix() int64 { return time.Now().Unix() }

func elementFromAttrs(attrs map[string]any) Element {
	return Element{
		TimeAdded:    toInt64Attr(attrs["time_added"]),
		TimeDisabled: toInt64Attr(attrs["time_disabled"]),
		Active:       toBoolAttr(attrs["active"]),
		Replacement:  toInt64Attr(attrs["replacement"]),
	}
}

// findActiveVertexByName runs the uniqueness probe shared by every
// unique-named kind: is there an active vertex of category with this name?
func findActiveVertexByName(ctx context.Context, gw gateway.Gateway, category, name string) (int64, bool, error) {
	query := "// find_vertex_by_attr\n" +
		"MATCH (n:Vertex) WHERE n.category = $category AND n.active = true AND n.name = $value RETURN id(n) AS id"
	rows, err := gw.Run(ctx, query, map[string]any{
		"category": category,
		"key":      "name",
		"value":    name,
	})
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	id, _ := toInt64Row(rows[0]["id"])
	return id, true, nil
}

// listActiveIDs returns every active vertex ID of category, ascending.
func listActiveIDs(ctx context.Context, gw gateway.Gateway, category string) ([]int64, error) {
	query := "// list_vertices_by_category\n" +
		"MATCH (n:Vertex) WHERE n.category = $category AND n.active = true RETURN id(n) AS id ORDER BY id(n)"
	rows, err := gw.Run(ctx, query, map[string]any{"category": category})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, ok := toInt64Row(row["id"])
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func toInt64Row(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func notFoundErr(kind string, wrapped error) error {
	return fmt.Errorf("%s: %w", kind, wrapped)
}
