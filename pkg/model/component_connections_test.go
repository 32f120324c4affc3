package model_test

import (
	"context"
	"testing"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/instrumentgraph/layoutdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectToSelfFails(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	err := comp.Connect(ctx, gw, c, comp, 100, "u1", gateway.IntervalOpen, 100, "", false)
	assert.ErrorIs(t, err, model.ErrConnectToSelf)
}

func TestConnectDisconnectRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	require.NoError(t, a.Connect(ctx, gw, c, b, 100, "u1", gateway.IntervalOpen, 100, "", false))

	conn, err := a.GetConnection(ctx, gw, c, b, 150)
	require.NoError(t, err)
	require.NotNil(t, conn)

	require.NoError(t, a.Disconnect(ctx, gw, c, b, 300, "u1", 300, ""))

	after, err := a.GetConnection(ctx, gw, c, b, 400)
	require.NoError(t, err)
	assert.Nil(t, after)

	during, err := a.GetConnection(ctx, gw, c, b, 200)
	require.NoError(t, err)
	assert.NotNil(t, during)
}

func TestConnectIsVisibleFromBothEndpoints(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	require.NoError(t, a.Connect(ctx, gw, c, b, 100, "u1", gateway.IntervalOpen, 100, "", false))

	fromB, err := b.GetConnection(ctx, gw, c, a, 150)
	require.NoError(t, err)
	require.NotNil(t, fromB, "rel_connection is undirected: b must see the connection too")
}

func TestConnectAlreadyConnectedFails(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	require.NoError(t, a.Connect(ctx, gw, c, b, 100, "u1", gateway.IntervalOpen, 100, "", false))
	err := a.Connect(ctx, gw, c, b, 150, "u1", gateway.IntervalOpen, 150, "", false)
	assert.ErrorIs(t, err, model.ErrComponentsAlreadyConnected)
}

func TestDisconnectWithoutActiveConnectionFails(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	err := a.Disconnect(ctx, gw, c, b, 100, "u1", 100, "")
	assert.ErrorIs(t, err, model.ErrComponentsAlreadyDisconnected)
}

func TestReplaceConnectionRetiresThenReconnects(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	require.NoError(t, a.Connect(ctx, gw, c, b, 100, "u1", gateway.IntervalOpen, 100, "", false))
	require.NoError(t, a.ReplaceConnection(ctx, gw, c, b, 300, "u1", ""))

	history, err := a.GetAllConnectionsWith(ctx, gw, c, b)
	require.NoError(t, err)
	require.Len(t, history, 2)

	current, err := a.GetConnection(ctx, gw, c, b, 400)
	require.NoError(t, err)
	require.NotNil(t, current)
}

func TestDisableConnectionPicksEdgeInEffectNotFirstMatch(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	a := model.NewComponent("A1", ct, nil)
	b := model.NewComponent("B1", ct, nil)
	require.NoError(t, a.Add(ctx, gw, c))
	require.NoError(t, b.Add(ctx, gw, c))

	// First connection, closed by Disconnect at 200 (interval closes, but the
	// edge's active flag is left untouched), then a second, separate
	// connection opened at 200. Both edges carry active:true; only the
	// second is in effect at 250.
	require.NoError(t, a.Connect(ctx, gw, c, b, 100, "u1", gateway.IntervalOpen, 100, "", false))
	require.NoError(t, a.Disconnect(ctx, gw, c, b, 200, "u1", 200, ""))
	require.NoError(t, a.Connect(ctx, gw, c, b, 200, "u1", gateway.IntervalOpen, 200, "", false))

	require.NoError(t, a.DisableConnection(ctx, gw, c, b, 250))

	after, err := a.GetConnection(ctx, gw, c, b, 300)
	require.NoError(t, err)
	assert.Nil(t, after, "the connection in effect at disableTime must be disabled")

	history, err := a.GetAllConnectionsWith(ctx, gw, c, b)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Active, "the earlier, already-closed edge must be untouched by DisableConnection")
	assert.False(t, history[1].Active, "the edge actually in effect at disableTime must be the one disabled")
}

func TestSubcomponentConnectRejectsSelfAndInverse(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	parent := model.NewComponent("P1", ct, nil)
	child := model.NewComponent("C1", ct, nil)
	require.NoError(t, parent.Add(ctx, gw, c))
	require.NoError(t, child.Add(ctx, gw, c))

	err := parent.SubcomponentConnect(ctx, gw, c, parent)
	assert.ErrorIs(t, err, model.ErrSubcomponentToSelf)

	require.NoError(t, parent.SubcomponentConnect(ctx, gw, c, child))

	err = parent.SubcomponentConnect(ctx, gw, c, child)
	assert.ErrorIs(t, err, model.ErrAlreadySubcomponent)

	err = child.SubcomponentConnect(ctx, gw, c, parent)
	assert.ErrorIs(t, err, model.ErrIsSubcomponentOfOther)
}

func TestSubcomponentHierarchyIsQueryableFromBothSides(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	parent := model.NewComponent("P1", ct, nil)
	child := model.NewComponent("C1", ct, nil)
	require.NoError(t, parent.Add(ctx, gw, c))
	require.NoError(t, child.Add(ctx, gw, c))
	require.NoError(t, parent.SubcomponentConnect(ctx, gw, c, child))

	subs, err := parent.GetAllSubcomponents(ctx, gw, c)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, child.ID(), subs[0].ID())

	supers, err := child.GetAllSupercomponents(ctx, gw, c)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	assert.Equal(t, parent.ID(), supers[0].ID())
}
