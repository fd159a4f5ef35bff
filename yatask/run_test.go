package yatask_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yatask"
)

func TestRunSync(t *testing.T) {
	t.Parallel()

	t.Run("[Success] - value is wrapped", func(t *testing.T) {
		t.Parallel()

		task := yatask.RunSync(func() (int, error) { return 4, nil }, label("sync"))

		done, ok := task.(intSuccess)
		require.True(t, ok)
		assert.Equal(t, 4, done.Data())
		assert.Equal(t, "sync", done.Label())
	})

	t.Run("[Failure] - error is wrapped without trace", func(t *testing.T) {
		t.Parallel()

		task := yatask.RunSync(func() (int, error) { return 0, errBoom }, label("sync"))

		failed, ok := task.(intFailure)
		require.True(t, ok)
		assert.ErrorIs(t, failed.Err(), errBoom)
		assert.Empty(t, failed.StackTrace())
	})

	t.Run("[Panic] - recovered with trace", func(t *testing.T) {
		t.Parallel()

		task := yatask.RunSync[int, string, yatask.Tags](func() (int, error) { panic("boom") })

		failed, ok := task.(intFailure)
		require.True(t, ok)
		assert.ErrorIs(t, failed.Err(), yatask.ErrTaskPanicked)
		assert.NotEmpty(t, failed.StackTrace())
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	done := yatask.Run(ctx, func(context.Context) (int, error) { return 8, nil }, seed(1))

	require.True(t, done.IsSuccess())

	data, _ := done.EffectiveData()
	assert.Equal(t, 8, data)

	failed := yatask.Run(ctx, func(context.Context) (int, error) { return 0, errBoom }, seed(1))

	require.True(t, failed.IsFailure())
	assert.NotEmpty(t, failed.(intFailure).StackTrace())

	previous, ok := failed.(intFailure).PreviousData()
	require.True(t, ok)
	assert.Equal(t, 1, previous)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("[Success] - running then success", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})

		updates := yatask.Watch(ctx, func(context.Context) (int, error) {
			<-release

			return 5, nil
		}, label("w"))

		first := <-updates
		assert.True(t, first.IsRunning())
		assert.Equal(t, "w", first.Label())

		close(release)

		var rest []intTask

		for update := range updates {
			rest = append(rest, update)
		}

		require.Len(t, rest, 1)
		assert.True(t, rest[0].IsSuccess())
	})

	t.Run("[Failure] - running then failure", func(t *testing.T) {
		t.Parallel()

		var states []yatask.State

		for update := range yatask.Watch[int, string, yatask.Tags](ctx, func(context.Context) (int, error) {
			return 0, errBoom
		}) {
			states = append(states, update.State())
		}

		assert.Equal(t, []yatask.State{yatask.StateRunning, yatask.StateFailure}, states)
	})
}
