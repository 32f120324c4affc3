package model_test

import (
	"context"
	"testing"

	"github.com/instrumentgraph/layoutdb/pkg/gateway"
	"github.com/instrumentgraph/layoutdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagAddAndEndFlag(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))

	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))
	fs := model.NewFlagSeverity("info")
	require.NoError(t, fs.Add(ctx, gw, c))

	start := model.Timestamp{Time: 100, UID: "u1", EditTime: 100}
	flag := model.NewFlag("firmware update", "", start, ft, fs, []*model.Component{comp})
	require.NoError(t, flag.Add(ctx, gw, c))

	flags, err := comp.GetAllFlags(ctx, gw, c)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "firmware update", flags[0].Name)
	assert.Equal(t, gateway.IntervalOpen, flags[0].End.Time)

	require.NoError(t, flag.EndFlag(ctx, gw, 200, "u1", 200, "resolved"))
	assert.Equal(t, int64(200), flag.End.Time)
}

func TestFlagAddTwiceFails(t *testing.T) {
	ctx := context.Background()
	gw, c := newTestGateway()

	ct := model.NewComponentType("antenna", "")
	require.NoError(t, ct.Add(ctx, gw, c))
	comp := model.NewComponent("A1", ct, nil)
	require.NoError(t, comp.Add(ctx, gw, c))
	ft := model.NewFlagType("maintenance", "")
	require.NoError(t, ft.Add(ctx, gw, c))
	fs := model.NewFlagSeverity("info")
	require.NoError(t, fs.Add(ctx, gw, c))

	flag := model.NewFlag("f1", "", model.Timestamp{Time: 100}, ft, fs, []*model.Component{comp})
	require.NoError(t, flag.Add(ctx, gw, c))

	err := flag.Add(ctx, gw, c)
	assert.ErrorIs(t, err, model.ErrVertexAlreadyAdded)
}

func TestEndFlagNotAddedFails(t *testing.T) {
	ft := model.NewFlagType("maintenance", "")
	fs := model.NewFlagSeverity("info")
	flag := model.NewFlag("f1", "", model.Timestamp{Time: 100}, ft, fs, nil)

	err := flag.EndFlag(context.Background(), gateway.NewMemoryGateway(), 200, "u1", 200, "")
	assert.ErrorIs(t, err, model.ErrFlagNotAdded)
}
