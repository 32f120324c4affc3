package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// Permission is a named capability that a UserGroup may grant (e.g.
// "edit_components").
type Permission struct {
	Element
	Name     string
	Comments string
}

func NewPermission(name, comments string) *Permission {
	return &Permission{Element: newElement(), Name: name, Comments: comments}
}

func PermissionFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*Permission, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*Permission), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("Permission", err)
	}
	p := &Permission{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
	}
	p.id = id
	cached := c.GetOrCreate(id, func() any { return p })
	return cached.(*Permission), nil
}

func PermissionFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*Permission, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryPermission, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPermissionNotAdded
	}
	return PermissionFromID(ctx, gw, c, id)
}

func (p *Permission) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if p.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryPermission, p.Name)
	return found, err
}

func (p *Permission) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := p.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("Permission %q: %w", p.Name, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryPermission,
		"name":     p.Name,
		"comments": p.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryPermission, attrs)
	if err != nil {
		return err
	}
	p.markAdded(id, now)
	c.Set(id, p)
	return nil
}

func (p *Permission) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !p.Element.AddedToDB() {
		return ErrPermissionNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, p.id, disableTime); err != nil {
		return err
	}
	p.markDisabled(disableTime)
	return nil
}

// Replace supersedes p with newP: disables p, adds newP, rewrites p's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newP must not already be added.
func (p *Permission) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newP *Permission, disableTime int64) error {
	if !p.Element.AddedToDB() {
		return ErrPermissionNotAdded
	}

	v, err := gw.GetVertex(ctx, p.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, p.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	p.markDisabled(disableTime)

	if err := newP.Add(ctx, gw, c); err != nil {
		return err
	}

	p.Replacement = newP.ID()
	if err := gw.SetVertexProperties(ctx, p.id, map[string]any{"replacement": newP.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newP.ID())
}

func ListPermissions(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*Permission, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryPermission)
	if err != nil {
		return nil, err
	}
	out := make([]*Permission, 0, len(ids))
	for _, id := range ids {
		p, err := PermissionFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
