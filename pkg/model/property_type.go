package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// PropertyType defines the schema a Property instance must satisfy: how
// many values it carries, what regex each must match, and which
// ComponentTypes may carry it.
type PropertyType struct {
	Element
	Name         string
	Units        string
	AllowedRegex string
	NValues      int
	Comments     string
	AllowedTypes []*ComponentType
}

func NewPropertyType(name, units, allowedRegex string, nValues int, comments string, allowedTypes []*ComponentType) *PropertyType {
	return &PropertyType{
		Element:      newElement(),
		Name:         name,
		Units:        units,
		AllowedRegex: allowedRegex,
		NValues:      nValues,
		Comments:     comments,
		AllowedTypes: allowedTypes,
	}
}

func PropertyTypeFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*PropertyType, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*PropertyType), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("PropertyType", err)
	}

	pt := &PropertyType{
		Element:      elementFromAttrs(v.Attrs),
		Name:         toStringAttr(v.Attrs["name"]),
		Units:        toStringAttr(v.Attrs["units"]),
		AllowedRegex: toStringAttr(v.Attrs["allowed_regex"]),
		NValues:      int(toInt64Attr(v.Attrs["n_values"])),
		Comments:     toStringAttr(v.Attrs["comments"]),
	}
	pt.id = id

	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelPropertyAllowedType {
			continue
		}
		ct, err := ComponentTypeFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		pt.AllowedTypes = append(pt.AllowedTypes, ct)
	}

	cached := c.GetOrCreate(id, func() any { return pt })
	return cached.(*PropertyType), nil
}

func PropertyTypeFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*PropertyType, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryPropertyType, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPropertyTypeNotAdded
	}
	return PropertyTypeFromID(ctx, gw, c, id)
}

func (pt *PropertyType) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if pt.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryPropertyType, pt.Name)
	return found, err
}

// Add persists the PropertyType and its rel_property_allowed_type edges.
// Fails with ErrPropertyTypeZeroAllowedTypes if AllowedTypes is empty.
func (pt *PropertyType) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	if len(pt.AllowedTypes) == 0 {
		return ErrPropertyTypeZeroAllowedTypes
	}

	added, err := pt.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("PropertyType %q: %w", pt.Name, ErrVertexAlreadyAdded)
	}

	for _, ct := range pt.AllowedTypes {
		ctAdded, err := ct.AddedToDB(ctx, gw)
		if err != nil {
			return err
		}
		if !ctAdded {
			if err := ct.Add(ctx, gw, c); err != nil {
				return err
			}
		}
	}

	now := nowUnix()
	attrs := map[string]any{
		"category":      gateway.CategoryPropertyType,
		"name":          pt.Name,
		"units":         pt.Units,
		"allowed_regex": pt.AllowedRegex,
		"n_values":      int64(pt.NValues),
		"comments":      pt.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryPropertyType, attrs)
	if err != nil {
		return err
	}

	for _, ct := range pt.AllowedTypes {
		if _, err := gw.AddEdge(ctx, gateway.CategoryRelPropertyAllowedType, id, ct.ID(), lifecycleAttrsAt(now)); err != nil {
			return err
		}
	}

	pt.markAdded(id, now)
	c.Set(id, pt)
	return nil
}

func (pt *PropertyType) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !pt.Element.AddedToDB() {
		return ErrPropertyTypeNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, pt.id, disableTime); err != nil {
		return err
	}
	pt.markDisabled(disableTime)
	return nil
}

// Replace supersedes pt with newPT: disables pt, adds newPT, rewrites pt's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newPT must not already be added.
func (pt *PropertyType) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newPT *PropertyType, disableTime int64) error {
	if !pt.Element.AddedToDB() {
		return ErrPropertyTypeNotAdded
	}

	v, err := gw.GetVertex(ctx, pt.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, pt.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	pt.markDisabled(disableTime)

	if err := newPT.Add(ctx, gw, c); err != nil {
		return err
	}

	pt.Replacement = newPT.ID()
	if err := gw.SetVertexProperties(ctx, pt.id, map[string]any{"replacement": newPT.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newPT.ID())
}

func ListPropertyTypes(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*PropertyType, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryPropertyType)
	if err != nil {
		return nil, err
	}
	out := make([]*PropertyType, 0, len(ids))
	for _, id := range ids {
		pt, err := PropertyTypeFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

// AllowsComponentType reports whether a Component of ct may carry this
// PropertyType.
func (pt *PropertyType) AllowsComponentType(ct *ComponentType) bool {
	for _, allowed := range pt.AllowedTypes {
		if allowed.ID() == ct.ID() {
			return true
		}
	}
	return false
}
