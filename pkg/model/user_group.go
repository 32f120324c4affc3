package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// UserGroup grants its members a set of Permissions. Must have at least one
// Permission at add time (spec §7, ErrUserGroupZeroPermission).
type UserGroup struct {
	Element
	Name        string
	Comments    string
	Permissions []*Permission
}

func NewUserGroup(name, comments string, permissions []*Permission) *UserGroup {
	return &UserGroup{Element: newElement(), Name: name, Comments: comments, Permissions: permissions}
}

func UserGroupFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*UserGroup, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*UserGroup), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("UserGroup", err)
	}

	ug := &UserGroup{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
	}
	ug.id = id

	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelGroupPermission {
			continue
		}
		perm, err := PermissionFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		ug.Permissions = append(ug.Permissions, perm)
	}

	cached := c.GetOrCreate(id, func() any { return ug })
	return cached.(*UserGroup), nil
}

func UserGroupFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*UserGroup, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryUserGroup, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserGroupNotAdded
	}
	return UserGroupFromID(ctx, gw, c, id)
}

func (ug *UserGroup) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if ug.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryUserGroup, ug.Name)
	return found, err
}

// Add persists the UserGroup and its rel_group_permission edges. Fails with
// ErrUserGroupZeroPermission if Permissions is empty.
func (ug *UserGroup) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	if len(ug.Permissions) == 0 {
		return ErrUserGroupZeroPermission
	}

	added, err := ug.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("UserGroup %q: %w", ug.Name, ErrVertexAlreadyAdded)
	}

	for _, perm := range ug.Permissions {
		permAdded, err := perm.AddedToDB(ctx, gw)
		if err != nil {
			return err
		}
		if !permAdded {
			if err := perm.Add(ctx, gw, c); err != nil {
				return err
			}
		}
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryUserGroup,
		"name":     ug.Name,
		"comments": ug.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryUserGroup, attrs)
	if err != nil {
		return err
	}

	for _, perm := range ug.Permissions {
		if _, err := gw.AddEdge(ctx, gateway.CategoryRelGroupPermission, id, perm.ID(), lifecycleAttrsAt(now)); err != nil {
			return err
		}
	}

	ug.markAdded(id, now)
	c.Set(id, ug)
	return nil
}

func (ug *UserGroup) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !ug.Element.AddedToDB() {
		return ErrUserGroupNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, ug.id, disableTime); err != nil {
		return err
	}
	ug.markDisabled(disableTime)
	return nil
}

func ListUserGroups(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*UserGroup, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryUserGroup)
	if err != nil {
		return nil, err
	}
	out := make([]*UserGroup, 0, len(ids))
	for _, id := range ids {
		ug, err := UserGroupFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ug)
	}
	return out, nil
}

// disableVertexAndIncidentEdges sets active=false/time_disabled on a
// vertex and every edge incident to it (spec §4.3, Element.disable()).
func disableVertexAndIncidentEdges(ctx context.Context, gw gateway.Gateway, id int64, disableTime int64) error {
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return err
	}

	patch := map[string]any{"active": false, "time_disabled": disableTime}
	if err := gw.SetVertexProperties(ctx, id, patch); err != nil {
		return err
	}
	for _, e := range v.OutEdges {
		if err := gw.SetEdgeProperties(ctx, e.ID, patch); err != nil {
			return err
		}
	}
	for _, e := range v.InEdges {
		if err := gw.SetEdgeProperties(ctx, e.ID, patch); err != nil {
			return err
		}
	}
	return nil
}

// migrateTransferableEdges copies every edge incident to v whose category is
// in transferableCategories onto newID, preserving direction and attrs
// (spec §4.3, Component.Replace). Structural typing edges are left alone:
// the successor declares its own at Add time.
func migrateTransferableEdges(ctx context.Context, gw gateway.Gateway, v *gateway.Vertex, newID int64) error {
	for _, e := range v.OutEdges {
		if !transferableCategories[e.Category] {
			continue
		}
		if _, err := gw.AddEdge(ctx, e.Category, newID, e.OtherID, e.Attrs); err != nil {
			return err
		}
	}
	for _, e := range v.InEdges {
		if !transferableCategories[e.Category] {
			continue
		}
		if _, err := gw.AddEdge(ctx, e.Category, e.OtherID, newID, e.Attrs); err != nil {
			return err
		}
	}
	return nil
}
