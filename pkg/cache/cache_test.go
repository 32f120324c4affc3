package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsSamePointerForSameID(t *testing.T) {
	c := cache.New()

	type widget struct{ n int }

	first := c.GetOrCreate(1, func() any { return &widget{n: 1} })
	second := c.GetOrCreate(1, func() any { return &widget{n: 2} })

	assert.Same(t, first, second)
	assert.Equal(t, 1, second.(*widget).n)
}

func TestGetOrCreateIsInjectiveUnderConcurrency(t *testing.T) {
	c := cache.New()

	var wg sync.WaitGroup
	results := make([]any, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrCreate(7, func() any { return new(int) })
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestGetOrCreateInvokesCreateAtMostOnceUnderConcurrency(t *testing.T) {
	c := cache.New()

	var calls int64
	ready := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ready
			c.GetOrCreate(7, func() any {
				atomic.AddInt64(&calls, 1)
				return new(int)
			})
		}()
	}
	close(ready)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "create must run at most once per id, per the GetOrCreate doc comment")
}

func TestSetOverwritesPriorEntry(t *testing.T) {
	c := cache.New()
	c.Set(1, "a")
	c.Set(1, "b")

	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestResetClearsAllEntries(t *testing.T) {
	c := cache.New()
	c.Set(1, "a")
	c.Reset()

	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestLockUnlockSerializesPerID(t *testing.T) {
	c := cache.New()

	c.Lock(1)
	acquired := make(chan struct{})
	go func() {
		c.Lock(1)
		defer c.Unlock(1)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock(1) acquired before first Unlock(1)")
	case <-time.After(50 * time.Millisecond):
	}

	c.Unlock(1)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock(1) never acquired after Unlock(1)")
	}
}
