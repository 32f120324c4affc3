package model_test

import (
	"context"
	"testing"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/instrumentgraph/layoutdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// edgeActive looks up whether the edge from v to other (in either
// direction) is still marked active, failing the test if no such edge
// exists.
func edgeActive(t *testing.T, ctx context.Context, gw gateway.Gateway, vertexID, otherID int64) bool {
	t.Helper()
	v, err := gw.GetVertex(ctx, vertexID)
	require.NoError(t, err)
	for _, e := range append(append([]gateway.EdgeRef{}, v.OutEdges...), v.InEdges...) {
		if e.OtherID == otherID {
			active, _ := e.Attrs["active"].(bool)
			return active
		}
	}
	t.Fatalf("no edge found between %d and %d", vertexID, otherID)
	return false
}

func TestComponentTypeDisableRetiresIncidentEdges(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	require.NoError(t, ct.Disable(ctx, gw, 200))
	assert.False(t, ct.Active)
	assert.False(t, edgeActive(t, ctx, gw, ct.ID(), comp.ID()), "rel_component_type edge must be retired")
}

func TestFlagTypeDisableRetiresIncidentEdges(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))
	severity := model.NewFlagSeverity("info")
	require.NoError(t, severity.Add(ctx, gw, c))

	flag := model.NewFlag("scheduled-swap", "", model.Timestamp{Time: 100, UID: "u1", EditTime: 100}, ft, severity, []*model.Component{comp})
	require.NoError(t, flag.Add(ctx, gw, c))

	require.NoError(t, ft.Disable(ctx, gw, 200))
	assert.False(t, ft.Active)
	assert.False(t, edgeActive(t, ctx, gw, ft.ID(), flag.ID()), "rel_flag_type edge must be retired")
}

func TestFlagSeverityDisableRetiresIncidentEdges(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))
	severity := model.NewFlagSeverity("info")
	require.NoError(t, severity.Add(ctx, gw, c))

	flag := model.NewFlag("scheduled-swap", "", model.Timestamp{Time: 100, UID: "u1", EditTime: 100}, ft, severity, []*model.Component{comp})
	require.NoError(t, flag.Add(ctx, gw, c))

	require.NoError(t, severity.Disable(ctx, gw, 200))
	assert.False(t, severity.Active)
	assert.False(t, edgeActive(t, ctx, gw, severity.ID(), flag.ID()), "rel_flag_severity edge must be retired")
}

func TestPermissionDisableRetiresIncidentEdges(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	perm := model.NewPermission("edit_components", "")
	ug := model.NewUserGroup("operators", "", []*model.Permission{perm})
	require.NoError(t, ug.Add(ctx, gw, c))

	require.NoError(t, perm.Disable(ctx, gw, 200))
	assert.False(t, perm.Active)
	assert.False(t, edgeActive(t, ctx, gw, perm.ID(), ug.ID()), "rel_group_permission edge must be retired")
}

func TestComponentTypeReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))

	successor := model.NewComponentType("antenna-v2", "")
	require.NoError(t, ct.Replace(ctx, gw, c, successor, 200))

	assert.False(t, ct.Active)
	assert.Equal(t, successor.ID(), ct.Replacement)
	assert.True(t, successor.Element.AddedToDB())
}

func TestComponentVersionReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	cv := model.NewComponentVersion("v1", "", ct)
	require.NoError(t, cv.Add(ctx, gw, c))

	successor := model.NewComponentVersion("v2", "", ct)
	require.NoError(t, cv.Replace(ctx, gw, c, successor, 200))

	assert.False(t, cv.Active)
	assert.Equal(t, successor.ID(), cv.Replacement)
}

func TestPropertyTypeReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	pt := model.NewPropertyType("gain", "dB", `^\d+$`, 1, "", []*model.ComponentType{ct})
	require.NoError(t, pt.Add(ctx, gw, c))

	successor := model.NewPropertyType("gain", "dB", `^\d+(\.\d+)?$`, 1, "", []*model.ComponentType{ct})
	require.NoError(t, pt.Replace(ctx, gw, c, successor, 200))

	assert.False(t, pt.Active)
	assert.Equal(t, successor.ID(), pt.Replacement)
}

func TestFlagTypeReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))

	successor := model.NewFlagType("scheduled-maintenance", "")
	require.NoError(t, ft.Replace(ctx, gw, c, successor, 200))

	assert.False(t, ft.Active)
	assert.Equal(t, successor.ID(), ft.Replacement)
}

func TestFlagSeverityReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	fs := model.NewFlagSeverity("info")
	require.NoError(t, fs.Add(ctx, gw, c))

	successor := model.NewFlagSeverity("notice")
	require.NoError(t, fs.Replace(ctx, gw, c, successor, 200))

	assert.False(t, fs.Active)
	assert.Equal(t, successor.ID(), fs.Replacement)
}

func TestPermissionReplaceRewritesReplacementPointer(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	perm := model.NewPermission("edit_components", "")
	ug := model.NewUserGroup("operators", "", []*model.Permission{perm})
	require.NoError(t, ug.Add(ctx, gw, c))

	successor := model.NewPermission("edit_components_v2", "")
	require.NoError(t, perm.Replace(ctx, gw, c, successor, 200))

	assert.False(t, perm.Active)
	assert.Equal(t, successor.ID(), perm.Replacement)
}

func TestFlagReplaceMigratesFlagComponentEdges(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))
	severity := model.NewFlagSeverity("info")
	require.NoError(t, severity.Add(ctx, gw, c))

	flag := model.NewFlag("scheduled-swap", "", model.Timestamp{Time: 100, UID: "u1", EditTime: 100}, ft, severity, []*model.Component{comp})
	require.NoError(t, flag.Add(ctx, gw, c))

	successor := model.NewFlag("scheduled-swap-2", "", model.Timestamp{Time: 200, UID: "u1", EditTime: 200}, ft, severity, nil)
	require.NoError(t, flag.Replace(ctx, gw, c, successor, 200))

	assert.False(t, flag.Active)
	assert.Equal(t, successor.ID(), flag.Replacement)
	assert.True(t, edgeActive(t, ctx, gw, successor.ID(), comp.ID()), "rel_flag_component edge must migrate to the successor flag")
}
