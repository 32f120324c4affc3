package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// FlagType names a category of Flag (e.g. "maintenance", "failure").
type FlagType struct {
	Element
	Name     string
	Comments string
}

func NewFlagType(name, comments string) *FlagType {
	return &FlagType{Element: newElement(), Name: name, Comments: comments}
}

func FlagTypeFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*FlagType, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*FlagType), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("FlagType", err)
	}
	ft := &FlagType{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
	}
	ft.id = id
	cached := c.GetOrCreate(id, func() any { return ft })
	return cached.(*FlagType), nil
}

func FlagTypeFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*FlagType, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryFlagType, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrFlagTypeNotAdded
	}
	return FlagTypeFromID(ctx, gw, c, id)
}

func (ft *FlagType) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if ft.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryFlagType, ft.Name)
	return found, err
}

func (ft *FlagType) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := ft.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("FlagType %q: %w", ft.Name, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryFlagType,
		"name":     ft.Name,
		"comments": ft.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryFlagType, attrs)
	if err != nil {
		return err
	}
	ft.markAdded(id, now)
	c.Set(id, ft)
	return nil
}

func (ft *FlagType) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !ft.Element.AddedToDB() {
		return ErrFlagTypeNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, ft.id, disableTime); err != nil {
		return err
	}
	ft.markDisabled(disableTime)
	return nil
}

// Replace supersedes ft with newFT: disables ft, adds newFT, rewrites ft's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newFT must not already be added.
func (ft *FlagType) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newFT *FlagType, disableTime int64) error {
	if !ft.Element.AddedToDB() {
		return ErrFlagTypeNotAdded
	}

	v, err := gw.GetVertex(ctx, ft.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, ft.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	ft.markDisabled(disableTime)

	if err := newFT.Add(ctx, gw, c); err != nil {
		return err
	}

	ft.Replacement = newFT.ID()
	if err := gw.SetVertexProperties(ctx, ft.id, map[string]any{"replacement": newFT.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newFT.ID())
}

func ListFlagTypes(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*FlagType, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryFlagType)
	if err != nil {
		return nil, err
	}
	out := make([]*FlagType, 0, len(ids))
	for _, id := range ids {
		ft, err := FlagTypeFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, nil
}
