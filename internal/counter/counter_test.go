package counter

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFramesHeroStats(t *testing.T) {
	t.Parallel()

	targets := []int{47, 12, 89}
	frames := Frames(targets, 60)
	require.Len(t, frames, 60)
	if diff := cmp.Diff(targets, frames[59]); diff != "" {
		t.Fatalf("last frame (-want +got):\n%s", diff)
	}
	prev := make([]int, len(targets))
	for s, frame := range frames {
		for i := range frame {
			require.GreaterOrEqualf(t, frame[i], prev[i], "frame %d index %d decreased", s, i)
		}
		prev = frame
	}
	// 1-(1-1/60)^3 = 0.0492 of each target.
	require.Equal(t, []int{2, 1, 4}, frames[0])
}

func TestFramesEdgeCases(t *testing.T) {
	t.Parallel()

	require.Nil(t, Frames([]int{10}, 0))
	require.Equal(t, [][]int{{10, 0}}, Frames([]int{10, 0}, 1))
	require.Equal(t, [][]int{{}, {}}, Frames(nil, 2))
}

func drain(t *testing.T, ch <-chan []int) [][]int {
	t.Helper()
	var got [][]int
	timeout := time.After(5 * time.Second)
	for {
		select {
		case frame, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, frame)
		case <-timeout:
			t.Fatal("animation did not finish")
		}
	}
}

func TestAnimatorPlaysFramesOnce(t *testing.T) {
	t.Parallel()

	a := New([]int{47, 12, 89}, WithSteps(5), WithInterval(time.Millisecond))
	require.Equal(t, []int{0, 0, 0}, a.Initial())

	ch, err := a.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, a.Frames(), drain(t, ch))

	_, err = a.Start(context.Background())
	require.ErrorIs(t, err, ErrAlreadyStarted)
	_, err = a.StartWhenVisible(context.Background(), nil)
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestAnimatorStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	a := New([]int{100}, WithInterval(time.Millisecond))
	ch, err := a.Start(ctx)
	require.NoError(t, err)

	<-ch
	cancel()
	got := drain(t, ch)
	require.Less(t, len(got), DefaultSteps-1)
}

func TestStartWhenVisible(t *testing.T) {
	t.Parallel()

	visible := make(chan struct{})
	a := New([]int{3}, WithSteps(3), WithInterval(time.Millisecond))
	ch, err := a.StartWhenVisible(context.Background(), visible)
	require.NoError(t, err)

	select {
	case <-ch:
		t.Fatal("animation started before the region was visible")
	case <-time.After(20 * time.Millisecond):
	}

	close(visible)
	require.Equal(t, [][]int{{2}, {3}, {3}}, drain(t, ch))
}

func TestStartWhenVisibleCancelledBeforeReveal(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	a := New([]int{3})
	ch, err := a.StartWhenVisible(ctx, make(chan struct{}))
	require.NoError(t, err)
	cancel()
	require.Empty(t, drain(t, ch))
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	t.Parallel()

	a := New(nil, WithSteps(0), WithInterval(-time.Second))
	require.Equal(t, DefaultSteps, a.Steps())
	require.Equal(t, DefaultInterval, a.Interval())
}
