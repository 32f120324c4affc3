// Package gateway implements the graph gateway layer: a thin typed wrapper
// over an external graph database's traversal interface. It is the only
// package that speaks the underlying traversal dialect (Cypher, for the
// Neo4j-backed implementation); every other package composes Gateway calls.
package gateway

import (
	"context"
)

// GraphProvider identifies which graph database backs a Gateway.
type GraphProvider string

const (
	ProviderNeo4j  GraphProvider = "neo4j"
	ProviderMemory GraphProvider = "memory"
)

// Category strings are wire-visible and must stay bit-exact across the
// client and any other consumer of the underlying graph.
const (
	CategoryComponentType    = "component_type"
	CategoryComponentVersion = "component_version"
	CategoryComponent        = "component"
	CategoryPropertyType     = "property_type"
	CategoryProperty         = "property"
	CategoryFlagType         = "flag_type"
	CategoryFlagSeverity     = "flag_severity"
	CategoryFlag             = "flag"
	CategoryPermission       = "permission"
	CategoryUserGroup        = "user_group"
	CategoryUser             = "user"

	CategoryRelComponentType       = "rel_component_type"
	CategoryRelVersion             = "rel_version"
	CategoryRelVersionAllowedType  = "rel_version_allowed_type"
	CategoryRelProperty            = "rel_property"
	CategoryRelPropertyType        = "rel_property_type"
	CategoryRelPropertyAllowedType = "rel_property_allowed_type"
	CategoryRelConnection          = "rel_connection"
	CategoryRelSubcomponent        = "rel_subcomponent"
	CategoryRelFlagComponent       = "rel_flag_component"
	CategoryRelFlagType            = "rel_flag_type"
	CategoryRelFlagSeverity        = "rel_flag_severity"
	CategoryRelUserGroup           = "rel_user_group"
	CategoryRelGroupPermission     = "rel_group_permission"
)

// Timestamp and lifecycle sentinel constants (spec §6).
const (
	// IntervalOpen marks the end of a temporal interval that is still ongoing.
	IntervalOpen int64 = 1<<63 - 1
	// EditOpen marks an end timestamp's edit_time as not yet recorded.
	EditOpen int64 = -1
	// DisabledNever marks a vertex/edge's time_disabled while it is active.
	DisabledNever int64 = -1
	// VirtualID marks an entity constructed client-side but not yet persisted.
	VirtualID int64 = -1
)

// Record is a single row returned by Run, keyed by the traversal's return
// projection (e.g. {"id": 7, "name": "A1"}).
type Record map[string]any

// Vertex is the gateway's view of a persisted vertex: its own attributes
// plus the IDs of its incident edges, each tagged with direction and
// category so callers can filter without a second round trip.
type Vertex struct {
	ID         int64
	Category   string
	Attrs      map[string]any
	OutEdges   []EdgeRef
	InEdges    []EdgeRef
}

// EdgeRef describes one edge incident to a Vertex returned by GetVertex.
type EdgeRef struct {
	ID       int64
	Category string
	OtherID  int64
	Attrs    map[string]any
}

// Gateway is the contract every entity in pkg/model is built against. IDs
// are opaque graph-database identifiers; VirtualID marks "not yet added".
type Gateway interface {
	// AddVertex persists a new vertex of the given category with attrs and
	// returns its database ID.
	AddVertex(ctx context.Context, category string, attrs map[string]any) (int64, error)

	// AddEdge persists a new edge of the given category from outID to inID
	// (direction is significant for directed categories; callers of
	// undirected categories such as rel_connection pick an arbitrary but
	// consistent orientation) and returns its database ID.
	AddEdge(ctx context.Context, category string, outID, inID int64, attrs map[string]any) (int64, error)

	// SetVertexProperties merges attrs onto the vertex with the given ID.
	SetVertexProperties(ctx context.Context, id int64, attrs map[string]any) error

	// SetEdgeProperties merges attrs onto the edge with the given ID.
	SetEdgeProperties(ctx context.Context, id int64, attrs map[string]any) error

	// GetVertex fetches a vertex and its incident edges by ID. Returns
	// ErrNotFound if no such vertex exists.
	GetVertex(ctx context.Context, id int64) (*Vertex, error)

	// Run executes a traversal (a Cypher query for the Neo4j-backed
	// Gateway) with bound parameters and returns its result rows. This is
	// the general-purpose primitive that pkg/model composes for listing,
	// temporal overlap checks, and lifecycle rewiring; AddVertex/AddEdge/
	// Set*Properties/GetVertex above are convenience wrappers around the
	// common cases.
	Run(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// Provider identifies the backing implementation.
	Provider() GraphProvider

	// Close releases all resources held by the gateway.
	Close(ctx context.Context) error
}
