package pool_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/pool"
)

func TestSubmitReturnsResult(t *testing.T) {
	p := pool.New(4)
	defer p.Close()

	fut, err := pool.Submit(p, func() (int, error) {
		return 21 * 2, nil
	})
	require.NoError(t, err)

	v, err := fut.Get()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestSubmitPropagatesError(t *testing.T) {
	p := pool.New(2)
	defer p.Close()

	fut, err := pool.Submit(p, func() (int, error) {
		return 0, fmt.Errorf("boom")
	})
	require.NoError(t, err)

	_, err = fut.Get()
	require.Error(t, err)
}

func TestManyTasksAllComplete(t *testing.T) {
	p := pool.New(4)
	defer p.Close()

	const n = 200
	var completed atomic.Int64
	futures := make([]*pool.Future[int], n)
	for i := 0; i < n; i++ {
		i := i
		fut, err := pool.Submit(p, func() (int, error) {
			completed.Add(1)
			return i * i, nil
		})
		require.NoError(t, err)
		futures[i] = fut
	}

	for i, fut := range futures {
		v, err := fut.Get()
		require.NoError(t, err)
		require.Equal(t, i*i, v)
	}
	require.Equal(t, int64(n), completed.Load())
}

func TestSubmitAfterCloseFails(t *testing.T) {
	p := pool.New(2)
	p.Close()

	_, err := pool.Submit(p, func() (int, error) { return 0, nil })
	require.Error(t, err)
}
