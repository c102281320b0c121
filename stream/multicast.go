// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync"
)

type MulticastParams struct {
	// BufferSize is the number of items to buffer per observer before backpressure
	// towards the source.
	BufferSize int

	// EmitLatest if set will emit the latest seen item when a new observer
	// subscribes, including after the source has completed.
	EmitLatest bool
}

var DefaultMulticastParams = MulticastParams{16, false}

// Multicast creates a publish-subscribe observable that "multicasts" items
// from the 'src' observable to subscribers.
//
// Returns the wrapped observable and a function to connect observers to the
// source observable. Connect will block until source observable completes and
// returns the error if any from the source observable. Source is observed
// once per call to connect, and connect is meant to be called once.
//
// Observers can subscribe both before and after the source has been connected,
// but may miss events if subscribing after connect. Observers subscribing after
// the source has terminated get the latest item if EmitLatest is set, and then
// the terminal error of the source.
func Multicast[T any](params MulticastParams, src Observable[T]) (mcast Observable[T], connect func(context.Context) error) {
	var (
		mu           sync.Mutex
		subID        int
		subs         = make(map[int]chan T)
		observeError error
		latestValue  T
		haveLatest   bool
	)

	// Closed when the source has terminated. 'observeError' is
	// valid after this.
	done := make(chan struct{})

	connect = func(ctx context.Context) error {
		err := src.Observe(
			ctx,
			func(item T) error {
				mu.Lock()
				defer mu.Unlock()
				if params.EmitLatest {
					latestValue = item
					haveLatest = true
				}
				for _, sub := range subs {
					sub <- item
				}
				return nil
			})

		mu.Lock()
		observeError = err
		close(done)
		mu.Unlock()
		return err
	}

	mcast = FuncObservable[T](
		func(subCtx context.Context, next func(T) error) error {
			// Create a channel for this subscriber and add it to the
			// map of subscribers.
			mu.Lock()
			thisID := subID
			subID++
			items := make(chan T, params.BufferSize)
			subs[thisID] = items
			latest, emitLatest := latestValue, params.EmitLatest && haveLatest
			mu.Unlock()

			unsubscribe := func() {
				// Drain to unblock the source until we acquire the lock.
				stop := make(chan struct{})
				go func() {
					for {
						select {
						case <-items:
						case <-stop:
							return
						}
					}
				}()
				mu.Lock()
				delete(subs, thisID)
				mu.Unlock()
				close(stop)
			}

			if emitLatest {
				if err := next(latest); err != nil {
					unsubscribe()
					return err
				}
			}

			// Feed downstream from the items channel. Stop if either 'next'
			// fails, the subscriber context is cancelled or the source has
			// terminated.
			for {
				select {
				case <-done:
					// The source has terminated and will not send more.
					// Flush what was buffered and return its error.
					mu.Lock()
					delete(subs, thisID)
					err := observeError
					mu.Unlock()
					for {
						select {
						case item := <-items:
							if errNext := next(item); errNext != nil {
								return errNext
							}
						default:
							return err
						}
					}

				case <-subCtx.Done():
					unsubscribe()
					return subCtx.Err()

				case item := <-items:
					if err := next(item); err != nil {
						unsubscribe()
						return err
					}
				}
			}
		})

	return
}
