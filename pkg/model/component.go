package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// Component is one physical unit of the instrument: an instance of a
// ComponentType, optionally at a specific ComponentVersion, carrying
// properties, connections, flags, and sub/super-component relations that
// all evolve in time.
type Component struct {
	Element
	Name    string
	Type    *ComponentType
	Version *ComponentVersion
}

// NewComponent constructs a not-yet-added Component. version may be nil.
func NewComponent(name string, componentType *ComponentType, version *ComponentVersion) *Component {
	return &Component{Element: newElement(), Name: name, Type: componentType, Version: version}
}

func ComponentFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*Component, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*Component), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("Component", err)
	}

	comp := &Component{
		Element: elementFromAttrs(v.Attrs),
		Name:    toStringAttr(v.Attrs["name"]),
	}
	comp.id = id

	for _, e := range v.OutEdges {
		switch e.Category {
		case gateway.CategoryRelComponentType:
			ct, err := ComponentTypeFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			comp.Type = ct
		case gateway.CategoryRelVersion:
			cv, err := ComponentVersionFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			comp.Version = cv
		}
	}

	cached := c.GetOrCreate(id, func() any { return comp })
	return cached.(*Component), nil
}

func ComponentFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*Component, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponent, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrComponentNotAdded
	}
	return ComponentFromID(ctx, gw, c, id)
}

func (comp *Component) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if comp.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponent, comp.Name)
	return found, err
}

// Add persists the Component along with its rel_component_type edge and,
// if Version is set, its rel_version edge. Referenced ComponentType and
// ComponentVersion are auto-added if not yet persisted (spec §4.3).
func (comp *Component) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := comp.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("Component %q: %w", comp.Name, ErrVertexAlreadyAdded)
	}

	typeAdded, err := comp.Type.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if !typeAdded {
		if err := comp.Type.Add(ctx, gw, c); err != nil {
			return err
		}
	}

	if comp.Version != nil {
		versionAdded, err := comp.Version.AddedToDB(ctx, gw)
		if err != nil {
			return err
		}
		if !versionAdded {
			if err := comp.Version.Add(ctx, gw, c); err != nil {
				return err
			}
		}
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryComponent,
		"name":     comp.Name,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryComponent, attrs)
	if err != nil {
		return err
	}

	if _, err := gw.AddEdge(ctx, gateway.CategoryRelComponentType, id, comp.Type.ID(), lifecycleAttrsAt(now)); err != nil {
		return err
	}
	if comp.Version != nil {
		if _, err := gw.AddEdge(ctx, gateway.CategoryRelVersion, id, comp.Version.ID(), lifecycleAttrsAt(now)); err != nil {
			return err
		}
	}

	comp.markAdded(id, now)
	c.Set(id, comp)
	return nil
}

// transferableCategories are the edge kinds replace() migrates verbatim
// from the disabled vertex to its successor. Structural typing edges are
// excluded: the successor declares its own at Add time (spec §4.3).
var transferableCategories = map[string]bool{
	gateway.CategoryRelConnection:    true,
	gateway.CategoryRelProperty:      true,
	gateway.CategoryRelSubcomponent:  true,
	gateway.CategoryRelFlagComponent: true,
}

// Replace supersedes comp with newComp: disables comp, adds newComp,
// rewrites comp's replacement pointer, and migrates every eligible incident
// edge (spec §4.3). newComp must not already be added.
func (comp *Component) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newComp *Component, disableTime int64) error {
	if !comp.Element.AddedToDB() {
		return ErrComponentNotAdded
	}

	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, comp.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	comp.markDisabled(disableTime)

	if err := newComp.Add(ctx, gw, c); err != nil {
		return err
	}

	comp.Replacement = newComp.ID()
	if err := gw.SetVertexProperties(ctx, comp.id, map[string]any{"replacement": newComp.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newComp.ID())
}

// Disable retires the Component and all its incident edges. No successor
// is created.
func (comp *Component) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !comp.Element.AddedToDB() {
		return ErrComponentNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, comp.id, disableTime); err != nil {
		return err
	}
	comp.markDisabled(disableTime)
	return nil
}

// GetList returns the page of active Components in window r, ordered by
// orderBy (one of "name", "type", "version") and direction, restricted to
// components matching at least one of filters (spec §4.4).
func GetList(ctx context.Context, gw gateway.Gateway, c *cache.Cache, r Range, orderBy string, direction OrderDirection, filters []ComponentFilter) ([]*Component, error) {
	if orderBy != "name" && orderBy != "type" && orderBy != "version" {
		return nil, fmt.Errorf("model: invalid order_by %q for Component.GetList", orderBy)
	}
	if direction != Asc && direction != Desc {
		return nil, fmt.Errorf("model: invalid order_direction %q for Component.GetList", direction)
	}

	all, err := loadMatchingComponents(ctx, gw, c, filters)
	if err != nil {
		return nil, err
	}

	sortComponents(all, orderBy, direction)

	ids := make([]int64, len(all))
	for i, comp := range all {
		ids[i] = comp.ID()
	}
	idToComp := make(map[int64]*Component, len(all))
	for _, comp := range all {
		idToComp[comp.ID()] = comp
	}

	paged := r.apply(ids)
	out := make([]*Component, 0, len(paged))
	for _, id := range paged {
		out = append(out, idToComp[id])
	}
	return out, nil
}

// GetCount returns the number of active Components matching at least one
// of filters, ignoring pagination.
func GetCount(ctx context.Context, gw gateway.Gateway, c *cache.Cache, filters []ComponentFilter) (int, error) {
	all, err := loadMatchingComponents(ctx, gw, c, filters)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func loadMatchingComponents(ctx context.Context, gw gateway.Gateway, c *cache.Cache, filters []ComponentFilter) ([]*Component, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryComponent)
	if err != nil {
		return nil, err
	}

	out := make([]*Component, 0, len(ids))
	for _, id := range ids {
		comp, err := ComponentFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		typeName := ""
		if comp.Type != nil {
			typeName = comp.Type.Name
		}
		versionName := ""
		if comp.Version != nil {
			versionName = comp.Version.Name
		}
		if matchesAnyFilter(filters, comp.Name, typeName, versionName) {
			out = append(out, comp)
		}
	}
	return out, nil
}

func sortComponents(components []*Component, orderBy string, direction OrderDirection) {
	keyFor := func(comp *Component) (primary, secondary, tertiary string) {
		typeName := ""
		if comp.Type != nil {
			typeName = comp.Type.Name
		}
		versionName := maxCodepoint
		if comp.Version != nil {
			versionName = comp.Version.Name
		}
		switch orderBy {
		case "type":
			return typeName, comp.Name, versionName
		case "version":
			return versionName, comp.Name, typeName
		default:
			return comp.Name, typeName, versionName
		}
	}

	sort.SliceStable(components, func(i, j int) bool {
		pi, si, ti := keyFor(components[i])
		pj, sj, tj := keyFor(components[j])

		if pi != pj {
			if direction == Desc {
				return pi > pj
			}
			return pi < pj
		}
		if si != sj {
			return si < sj
		}
		return ti < tj
	})
}

