package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// FlagSeverity names a severity level a Flag can carry (e.g. "info",
// "critical"). Unlike the other simple named kinds it has no comments
// field (spec §3).
type FlagSeverity struct {
	Element
	Name string
}

func NewFlagSeverity(name string) *FlagSeverity {
	return &FlagSeverity{Element: newElement(), Name: name}
}

func FlagSeverityFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*FlagSeverity, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*FlagSeverity), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("FlagSeverity", err)
	}
	fs := &FlagSeverity{
		Element: elementFromAttrs(v.Attrs),
		Name:    toStringAttr(v.Attrs["name"]),
	}
	fs.id = id
	cached := c.GetOrCreate(id, func() any { return fs })
	return cached.(*FlagSeverity), nil
}

func FlagSeverityFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*FlagSeverity, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryFlagSeverity, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrFlagSeverityNotAdded
	}
	return FlagSeverityFromID(ctx, gw, c, id)
}

func (fs *FlagSeverity) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if fs.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryFlagSeverity, fs.Name)
	return found, err
}

func (fs *FlagSeverity) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := fs.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("FlagSeverity %q: %w", fs.Name, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryFlagSeverity,
		"name":     fs.Name,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryFlagSeverity, attrs)
	if err != nil {
		return err
	}
	fs.markAdded(id, now)
	c.Set(id, fs)
	return nil
}

func (fs *FlagSeverity) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !fs.Element.AddedToDB() {
		return ErrFlagSeverityNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, fs.id, disableTime); err != nil {
		return err
	}
	fs.markDisabled(disableTime)
	return nil
}

// Replace supersedes fs with newFS: disables fs, adds newFS, rewrites fs's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newFS must not already be added.
func (fs *FlagSeverity) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newFS *FlagSeverity, disableTime int64) error {
	if !fs.Element.AddedToDB() {
		return ErrFlagSeverityNotAdded
	}

	v, err := gw.GetVertex(ctx, fs.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, fs.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	fs.markDisabled(disableTime)

	if err := newFS.Add(ctx, gw, c); err != nil {
		return err
	}

	fs.Replacement = newFS.ID()
	if err := gw.SetVertexProperties(ctx, fs.id, map[string]any{"replacement": newFS.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newFS.ID())
}

func ListFlagSeverities(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*FlagSeverity, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryFlagSeverity)
	if err != nil {
		return nil, err
	}
	out := make([]*FlagSeverity, 0, len(ids))
	for _, id := range ids {
		fs, err := FlagSeverityFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, nil
}
