package reveal

import "context"

// Static reports every region fully visible. It is used when animations are disabled, so the
// server renders the final state.
func Static() Observer {
	return ObserverFunc(func(context.Context, string) (<-chan Entry, error) {
		ch := make(chan Entry, 1)
		ch <- Entry{Ratio: 1}
		close(ch)
		return ch, nil
	})
}

// Deferred never reports on the server. Regions render Hidden and the browser script runs the same
// state machine against a real IntersectionObserver at Threshold.
func Deferred() Observer {
	return ObserverFunc(func(context.Context, string) (<-chan Entry, error) {
		ch := make(chan Entry)
		close(ch)
		return ch, nil
	})
}

// Unsupported fails every observation, which shows regions immediately.
func Unsupported() Observer {
	return ObserverFunc(func(context.Context, string) (<-chan Entry, error) {
		return nil, ErrUnsupported
	})
}
