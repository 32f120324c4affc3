// Package layoutdb is the client-side domain layer for a time-versioned
// configuration graph that tracks the physical inventory of an experimental
// instrument: the components deployed, their typed properties, how they are
// interconnected, and how those facts evolve over time.
//
// Every fact recorded by layoutdb — a property value, a connection between
// two components, a flag against a component — is valid across an explicit
// time interval, so the graph answers both "what is true now?" and "what
// was true at instant T?".
//
// # Layers
//
// The module is organized leaves-first:
//
//   - pkg/gateway: a thin typed wrapper over the external graph database's
//     traversal interface (add vertex/edge, query by ID, filtered and
//     paginated enumeration, property updates).
//   - pkg/cache: a process-wide identity map from graph vertex ID to the
//     live domain object representing it.
//   - pkg/model: the typed vertex and edge kinds, each owning its schema,
//     its add/disable lifecycle (replace on every kind but UserGroup and
//     User), and its listers (filtered and paginated for Component).
//   - temporal operations on Component (setting/unsetting/replacing a
//     property, connecting/disconnecting components, attaching flags,
//     sub/super-component hierarchy, point-in-time snapshots) live as
//     methods on pkg/model.Component.
//
// # Basic usage
//
//	gw, err := gateway.NewNeo4jGateway(ctx, "bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gw.Close(ctx)
//
//	cache := cache.New()
//
//	antenna := model.NewComponentType("antenna", "")
//	if err := antenna.Add(ctx, gw, cache); err != nil {
//		log.Fatal(err)
//	}
//
//	c := model.NewComponent("A1", antenna, nil)
//	if err := c.Add(ctx, gw, cache); err != nil {
//		log.Fatal(err)
//	}
//
// # Concurrency
//
// layoutdb performs blocking graph traversals and returns before
// relinquishing control; there is no internal task queue. The identity
// cache is the only process-wide mutable state and is safe for concurrent
// use. Correctness under concurrent writers targeting the same entity
// requires callers to serialize mutations per component, typically at the
// server layer built on top of this library.
package layoutdb
