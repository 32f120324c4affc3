package model_test

import (
	"context"
	"testing"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/instrumentgraph/layoutdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentAsDictFiltersTemporalCollectionsByTime(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	pt := model.NewPropertyType("gain", "dB", `^\d+$`, 1, "", []*model.ComponentType{ct})
	require.NoError(t, pt.Add(ctx, gw, c))

	comp := model.NewComponent("A1", ct, nil)
	other := model.NewComponent("B1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))
	require.NoError(t, other.Add(ctx, gw, c))

	prop := model.NewProperty([]string{"42"}, pt)
	require.NoError(t, comp.SetProperty(ctx, gw, c, prop, 100, "u1", gateway.IntervalOpen, 100, "", false))
	require.NoError(t, comp.Connect(ctx, gw, c, other, 100, "u1", gateway.IntervalOpen, 100, "", false))

	at := int64(150)
	dict, err := comp.AsDict(ctx, gw, c, &at)
	require.NoError(t, err)
	assert.Equal(t, "A1", dict["name"])

	properties, ok := dict["properties"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, properties, 1)

	connections, ok := dict["connections"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, connections, 1)

	before := int64(50)
	dictBefore, err := comp.AsDict(ctx, gw, c, &before)
	require.NoError(t, err)
	assert.Empty(t, dictBefore["properties"])
	assert.Empty(t, dictBefore["connections"])
}

func TestNamesOfTypesAndVersionsPairsByAllowedType(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	antenna := model.NewComponentType("antenna", "")
	require.NoError(t, antenna.Add(ctx, gw, c))
	mount := model.NewComponentType("mount", "")
	require.NoError(t, mount.Add(ctx, gw, c))

	v1 := model.NewComponentVersion("v1", "", antenna)
	require.NoError(t, v1.Add(ctx, gw, c))
	v2 := model.NewComponentVersion("v2", "", antenna)
	require.NoError(t, v2.Add(ctx, gw, c))

	pairs, err := model.NamesOfTypesAndVersions(ctx, gw, c)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	byType := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		byType[p.TypeName] = p.VersionNames
	}
	assert.ElementsMatch(t, []string{"v1", "v2"}, byType["antenna"])
	assert.Empty(t, byType["mount"])
}
