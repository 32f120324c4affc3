package model

import (
	"context"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// TypeAndVersionNames pairs a ComponentType's name with the names of its
// active ComponentVersions, for populating selection widgets without
// loading full entities.
type TypeAndVersionNames struct {
	TypeName     string
	VersionNames []string
}

// NamesOfTypesAndVersions returns every active ComponentType paired with
// the names of the ComponentVersions that declare it as their allowed
// type.
func NamesOfTypesAndVersions(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]TypeAndVersionNames, error) {
	types, err := ListComponentTypes(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	versions, err := ListComponentVersions(ctx, gw, c)
	if err != nil {
		return nil, err
	}

	out := make([]TypeAndVersionNames, 0, len(types))
	for _, ct := range types {
		entry := TypeAndVersionNames{TypeName: ct.Name}
		for _, cv := range versions {
			if cv.AllowedType != nil && cv.AllowedType.ID() == ct.ID() {
				entry.VersionNames = append(entry.VersionNames, cv.Name)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
