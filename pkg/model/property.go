package model

import (
	"context"
	"regexp"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// Property is an immutable value-bearing vertex: once attached to a
// component via a rel_property edge it is never mutated, only superseded.
type Property struct {
	Element
	Values []string
	Type   *PropertyType
}

// NewProperty constructs a not-yet-added Property. Call Validate before
// attaching it with Component.SetProperty.
func NewProperty(values []string, propType *PropertyType) *Property {
	return &Property{Element: newElement(), Values: append([]string(nil), values...), Type: propType}
}

// Validate checks the property against its type's schema (spec §3,
// testable invariant 3): value count and per-value regex match.
func (p *Property) Validate() error {
	if len(p.Values) != p.Type.NValues {
		return ErrPropertyWrongNValues
	}
	// Anchored so the whole value must match, mirroring Python's
	// re.fullmatch (spec §3 invariant 3) rather than regexp.MatchString's
	// "contains a match anywhere" semantics.
	re, err := regexp.Compile(`^(?:` + p.Type.AllowedRegex + `)$`)
	if err != nil {
		return err
	}
	for _, val := range p.Values {
		if !re.MatchString(val) {
			return ErrPropertyNotMatchRegex
		}
	}
	return nil
}

// Clone returns a deep copy with VirtualID, as used by set_property to
// attach a fresh Property vertex carrying the same values (spec §4.5:
// "properties are immutable once attached").
func (p *Property) Clone() *Property {
	return NewProperty(p.Values, p.Type)
}

func PropertyFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*Property, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*Property), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("Property", err)
	}

	p := &Property{
		Element: elementFromAttrs(v.Attrs),
		Values:  toStringSliceAttr(v.Attrs["values"]),
	}
	p.id = id

	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelPropertyType {
			continue
		}
		pt, err := PropertyTypeFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		p.Type = pt
		break
	}

	cached := c.GetOrCreate(id, func() any { return p })
	return cached.(*Property), nil
}

// add persists p (a freshly constructed, not-yet-added copy) and its
// rel_property_type edge. Unlike the other kinds, Property has no public
// Add: it is always attached through Component.SetProperty, which enforces
// the temporal policy around it.
func (p *Property) add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryProperty,
		"values":   p.Values,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryProperty, attrs)
	if err != nil {
		return err
	}

	if _, err := gw.AddEdge(ctx, gateway.CategoryRelPropertyType, id, p.Type.ID(), lifecycleAttrsAt(now)); err != nil {
		return err
	}

	p.markAdded(id, now)
	c.Set(id, p)
	return nil
}

func toStringSliceAttr(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			s, _ := item.(string)
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
