package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// ComponentVersion names a version of a single ComponentType (e.g. "v2" of
// "antenna"). Names are unique among active ComponentVersions.
type ComponentVersion struct {
	Element
	Name         string
	Comments     string
	AllowedType  *ComponentType
}

func NewComponentVersion(name, comments string, allowedType *ComponentType) *ComponentVersion {
	return &ComponentVersion{Element: newElement(), Name: name, Comments: comments, AllowedType: allowedType}
}

func ComponentVersionFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*ComponentVersion, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*ComponentVersion), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("ComponentVersion", err)
	}

	cv := &ComponentVersion{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
	}
	cv.id = id

	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelVersionAllowedType {
			continue
		}
		ct, err := ComponentTypeFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		cv.AllowedType = ct
		break
	}

	cached := c.GetOrCreate(id, func() any { return cv })
	return cached.(*ComponentVersion), nil
}

func ComponentVersionFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*ComponentVersion, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponentVersion, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrComponentVersionNotAdded
	}
	return ComponentVersionFromID(ctx, gw, c, id)
}

func (cv *ComponentVersion) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if cv.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponentVersion, cv.Name)
	return found, err
}

// Add persists the ComponentVersion, auto-adding its AllowedType if it has
// not been persisted yet (spec §4.3, "auto-adding a ComponentType before
// its ComponentVersion").
func (cv *ComponentVersion) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := cv.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("ComponentVersion %q: %w", cv.Name, ErrVertexAlreadyAdded)
	}

	typeAdded, err := cv.AllowedType.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if !typeAdded {
		if err := cv.AllowedType.Add(ctx, gw, c); err != nil {
			return err
		}
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryComponentVersion,
		"name":     cv.Name,
		"comments": cv.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryComponentVersion, attrs)
	if err != nil {
		return err
	}

	if _, err := gw.AddEdge(ctx, gateway.CategoryRelVersionAllowedType, id, cv.AllowedType.ID(), lifecycleAttrsAt(now)); err != nil {
		return err
	}

	cv.markAdded(id, now)
	c.Set(id, cv)
	return nil
}

func (cv *ComponentVersion) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !cv.Element.AddedToDB() {
		return ErrComponentVersionNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, cv.id, disableTime); err != nil {
		return err
	}
	cv.markDisabled(disableTime)
	return nil
}

// Replace supersedes cv with newCV: disables cv, adds newCV, rewrites cv's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newCV must not already be added.
func (cv *ComponentVersion) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newCV *ComponentVersion, disableTime int64) error {
	if !cv.Element.AddedToDB() {
		return ErrComponentVersionNotAdded
	}

	v, err := gw.GetVertex(ctx, cv.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, cv.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	cv.markDisabled(disableTime)

	if err := newCV.Add(ctx, gw, c); err != nil {
		return err
	}

	cv.Replacement = newCV.ID()
	if err := gw.SetVertexProperties(ctx, cv.id, map[string]any{"replacement": newCV.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newCV.ID())
}

func ListComponentVersions(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*ComponentVersion, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryComponentVersion)
	if err != nil {
		return nil, err
	}
	out := make([]*ComponentVersion, 0, len(ids))
	for _, id := range ids {
		cv, err := ComponentVersionFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, nil
}
