package yatask_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yatask"
)

var errBoom = errors.New("boom")

func transitions() map[string]func(intTask) intTask {
	return map[string]func(intTask) intTask{
		"ToPending":     func(t intTask) intTask { return t.ToPending() },
		"ToPendingWith": func(t intTask) intTask { return t.ToPendingWith(9) },
		"ToRunning":     func(t intTask) intTask { return t.ToRunning() },
		"ToRefreshing":  func(t intTask) intTask { return t.ToRefreshing() },
		"ToRetrying":    func(t intTask) intTask { return t.ToRetrying() },
		"ToSuccess":     func(t intTask) intTask { return t.ToSuccess(1) },
		"ToFailure":     func(t intTask) intTask { return t.ToFailure(errBoom, "trace") },
		"MapError": func(t intTask) intTask {
			return t.MapError(func(err error) error { return err })
		},
	}
}

func TestTask_LabelAndTagsPropagate(t *testing.T) {
	t.Parallel()

	sources := []intTask{
		pending(label("a"), tags("x")),
		running(label("a"), tags("x")),
		success(5, label("a"), tags("x")),
		failure(errBoom, label("a"), tags("x")),
	}

	for _, source := range sources {
		for name, transition := range transitions() {
			t.Run("["+source.State().String()+"] - "+name, func(t *testing.T) {
				next := transition(source)

				assert.Equal(t, source.Label(), next.Label())
				assert.Same(t, source.Tags(), next.Tags())

				initial, ok := next.InitialData()
				if name != "ToPendingWith" {
					sourceInitial, sourceOk := source.InitialData()
					assert.Equal(t, sourceOk, ok)
					assert.Equal(t, sourceInitial, initial)
				}
			})
		}
	}
}

func TestTask_EffectiveData(t *testing.T) {
	t.Parallel()

	t.Run("[Success] - data is effective", func(t *testing.T) {
		t.Parallel()

		done := success(5)

		data, ok := done.EffectiveData()
		require.True(t, ok)
		assert.Equal(t, 5, data)
		assert.Equal(t, 5, done.Data())
	})

	t.Run("[Running] - carries previous data", func(t *testing.T) {
		t.Parallel()

		next := success(5).ToRunning()

		data, ok := next.EffectiveData()
		require.True(t, ok)
		assert.Equal(t, 5, data)

		previous, ok := next.PreviousData()
		require.True(t, ok)
		assert.Equal(t, 5, previous)
	})

	t.Run("[Failure] - keeps the data of the run", func(t *testing.T) {
		t.Parallel()

		failed := success(5).ToRunning().ToFailure(errBoom, "")

		data, ok := failed.EffectiveData()
		require.True(t, ok)
		assert.Equal(t, 5, data)
		assert.ErrorIs(t, failed.Err(), errBoom)
	})

	t.Run("[Pending] - empty without initial data", func(t *testing.T) {
		t.Parallel()

		_, ok := pending().EffectiveData()
		assert.False(t, ok)
	})

	t.Run("[Pending] - initial data is effective", func(t *testing.T) {
		t.Parallel()

		data, ok := pending(seed(3)).EffectiveData()
		require.True(t, ok)
		assert.Equal(t, 3, data)
	})

	t.Run("[Refreshing] - falls back to initial data", func(t *testing.T) {
		t.Parallel()

		refreshing := pending(seed(3)).ToRefreshing()

		data, ok := refreshing.EffectiveData()
		require.True(t, ok)
		assert.Equal(t, 3, data)
	})

	t.Run("[Retrying] - nothing to carry", func(t *testing.T) {
		t.Parallel()

		retrying := pending().ToRetrying()

		_, ok := retrying.PreviousData()
		assert.False(t, ok)

		_, ok = retrying.EffectiveData()
		assert.False(t, ok)
	})
}

func TestTask_StateCoverage(t *testing.T) {
	t.Parallel()

	tasks := map[yatask.State]intTask{
		yatask.StatePending:    yatask.NewPending[int, string, yatask.Tags](),
		yatask.StateRunning:    yatask.NewRunning[int, string, yatask.Tags](),
		yatask.StateRefreshing: yatask.NewRefreshing[int, string, yatask.Tags](),
		yatask.StateRetrying:   yatask.NewRetrying[int, string, yatask.Tags](),
		yatask.StateSuccess:    yatask.NewSuccess[int, string, yatask.Tags](1),
		yatask.StateFailure:    yatask.NewFailure[int, string, yatask.Tags](errBoom, ""),
	}

	require.Len(t, tasks, len(yatask.States()))

	for state, task := range tasks {
		predicates := map[yatask.State]bool{
			yatask.StatePending:    task.IsPending(),
			yatask.StateRunning:    task.IsRunning(),
			yatask.StateRefreshing: task.IsRefreshing(),
			yatask.StateRetrying:   task.IsRetrying(),
			yatask.StateSuccess:    task.IsSuccess(),
			yatask.StateFailure:    task.IsFailure(),
		}

		assert.Equal(t, state, task.State())

		for predicateState, holds := range predicates {
			assert.Equal(t, predicateState == state, holds, "%s.Is%s", state, predicateState)
		}
	}
}

func TestTask_ErrOnlyOnFailure(t *testing.T) {
	t.Parallel()

	assert.NoError(t, pending().Err())
	assert.NoError(t, success(1).Err())
	assert.NoError(t, failure(errBoom).ToRunning().Err())
	assert.ErrorIs(t, failure(errBoom).Err(), errBoom)
}

func TestTask_Pending(t *testing.T) {
	t.Parallel()

	source := success(5, seed(1))

	kept, _ := source.ToPending().InitialData()
	assert.Equal(t, 1, kept)

	replaced, _ := source.ToPendingWith(2).InitialData()
	assert.Equal(t, 2, replaced)

	_, ok := source.ToPending().EffectiveData()
	assert.True(t, ok)
}

func TestTask_FailureStackTrace(t *testing.T) {
	t.Parallel()

	failed := pending().ToFailure(errBoom, "main.go:12")

	assert.Equal(t, "main.go:12", failed.StackTrace())
}

func TestTask_ApplyTransition(t *testing.T) {
	t.Parallel()

	source := success(5, label("a"))

	t.Run("[Success] - requires data", func(t *testing.T) {
		t.Parallel()

		next, err := source.ApplyTransition(yatask.StateSuccess, yatask.Payload[int]{})

		require.NotNil(t, err)
		assert.Nil(t, next)
		assert.ErrorIs(t, err, yatask.ErrInvalidTransition)
		assert.Equal(t, 400, err.Code())
		assert.Equal(t, 5, source.Data())
	})

	t.Run("[Failure] - requires an error", func(t *testing.T) {
		t.Parallel()

		_, err := source.ApplyTransition(yatask.StateFailure, yatask.Payload[int]{StackTrace: "x"})

		require.NotNil(t, err)
		assert.ErrorIs(t, err, yatask.ErrInvalidTransition)
	})

	t.Run("[Unknown] - refused", func(t *testing.T) {
		t.Parallel()

		_, err := source.ApplyTransition(yatask.State(42), yatask.Payload[int]{})

		require.NotNil(t, err)
		assert.ErrorIs(t, err, yatask.ErrInvalidTransition)
	})

	t.Run("[Dispatch] - routes to every state", func(t *testing.T) {
		t.Parallel()

		data := 7

		for _, state := range yatask.States() {
			next, err := source.ApplyTransition(state, yatask.Payload[int]{Data: &data, Err: errBoom})

			require.Nil(t, err)
			assert.Equal(t, state, next.State())
			assert.Equal(t, "a", next.Label())
		}
	})

	t.Run("[Pending] - data replaces initial data", func(t *testing.T) {
		t.Parallel()

		data := 7

		next, err := source.ApplyTransition(yatask.StatePending, yatask.Payload[int]{Data: &data})

		require.Nil(t, err)

		initial, ok := next.InitialData()
		require.True(t, ok)
		assert.Equal(t, 7, initial)
	})
}

func TestTask_CopyWith(t *testing.T) {
	t.Parallel()

	source := success(5, label("a"))

	relabeled := source.WithLabel("b")

	assert.Equal(t, "b", relabeled.Label())
	assert.Equal(t, "a", source.Label())
	assert.IsType(t, intSuccess{}, relabeled)

	retagged := source.WithTags(yatask.NewTags("x"))
	assert.True(t, retagged.Tags().Has("x"))

	seeded := source.WithInitialData(1)
	initial, _ := seeded.InitialData()
	assert.Equal(t, 1, initial)
}

func TestMapData(t *testing.T) {
	t.Parallel()

	format := func(v int) string { return strconv.Itoa(v) }

	t.Run("[Success] - data is converted", func(t *testing.T) {
		t.Parallel()

		mapped := yatask.MapData(intTask(success(5, label("a"), seed(1))), format)

		done, ok := mapped.(yatask.SuccessTask[string, string, yatask.Tags])
		require.True(t, ok)
		assert.Equal(t, "5", done.Data())
		assert.Equal(t, "a", done.Label())

		initial, _ := done.InitialData()
		assert.Equal(t, "1", initial)
	})

	t.Run("[Running] - previous data is converted", func(t *testing.T) {
		t.Parallel()

		mapped := yatask.MapData(intTask(success(5).ToRunning()), format)

		data, ok := mapped.EffectiveData()
		require.True(t, ok)
		assert.Equal(t, "5", data)
		assert.True(t, mapped.IsRunning())
	})

	t.Run("[Failure] - error is kept", func(t *testing.T) {
		t.Parallel()

		mapped := yatask.MapData(intTask(failure(errBoom)), format)

		assert.ErrorIs(t, mapped.Err(), errBoom)
	})

	t.Run("[Cache] - dropped", func(t *testing.T) {
		t.Parallel()

		cache, err := yatask.NewCache(yatask.CacheMemoize, yatask.CacheOptions[int]{})
		require.Nil(t, err)

		mapped := yatask.MapData(pending().WithCache(cache), format)

		assert.Nil(t, mapped.Cache())
		assert.Equal(t, yatask.CacheNone, mapped.CacheStrategy())
	})
}

func TestTask_MapErrorAndTransform(t *testing.T) {
	t.Parallel()

	errWrapped := errors.New("wrapped")
	wrap := func(err error) error { return errors.Join(errWrapped, err) }
	double := func(v int) int { return v * 2 }

	t.Run("[MapError] - rewrites failures only", func(t *testing.T) {
		t.Parallel()

		mapped := failure(errBoom).MapError(wrap)
		assert.ErrorIs(t, mapped.Err(), errWrapped)
		assert.ErrorIs(t, mapped.Err(), errBoom)

		untouched := success(1).MapError(wrap)
		assert.NoError(t, untouched.Err())
	})

	t.Run("[Transform] - success data", func(t *testing.T) {
		t.Parallel()

		next := success(2).Transform(yatask.TransformOptions[int]{UpdateData: double, UpdatePrevious: double})

		data, _ := next.EffectiveData()
		assert.Equal(t, 4, data)
	})

	t.Run("[Transform] - failure error and previous data", func(t *testing.T) {
		t.Parallel()

		next := success(2).ToFailure(errBoom, "").Transform(yatask.TransformOptions[int]{
			UpdateData:     func(int) int { return -1 },
			UpdateError:    wrap,
			UpdatePrevious: double,
		})

		data, _ := next.EffectiveData()
		assert.Equal(t, 4, data)
		assert.ErrorIs(t, next.Err(), errWrapped)
	})

	t.Run("[Transform] - pending initial data", func(t *testing.T) {
		t.Parallel()

		next := pending(seed(3)).Transform(yatask.TransformOptions[int]{UpdateData: double})

		data, _ := next.InitialData()
		assert.Equal(t, 6, data)
	})

	t.Run("[Transform] - running previous data", func(t *testing.T) {
		t.Parallel()

		next := success(3).ToRunning().Transform(yatask.TransformOptions[int]{
			UpdateData:     func(int) int { return -1 },
			UpdatePrevious: double,
		})

		data, _ := next.EffectiveData()
		assert.Equal(t, 6, data)
	})
}

func TestTask_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success(label=a, data=5)", success(5, label("a")).String())
	assert.Equal(t, "pending(label=)", pending().String())
	assert.Equal(t, "failure(label=b, data=1, err=boom)", success(1, label("b")).ToFailure(errBoom, "").String())
}
