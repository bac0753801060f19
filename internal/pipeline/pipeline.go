// Package pipeline provides the channel stages used to stream datasets and batches of
// route checks: a generator, a worker pool, a sink and an error merger.
package pipeline

import (
	"context"
	"errors"
	"sync"
)

// Event is used as the type for input and output channels
type Event interface{}

// ErrCanceled is reported by a stage whose context is done
var ErrCanceled = errors.New("pipeline canceled")

type (
	// eachFunc is called for each event of the input channel
	eachFunc func(val interface{}) error
	// generateFunc is used in Generate to produce values for the output channel
	generateFunc func() (interface{}, error)
	// workerFunc consumes an item of the input channel
	// and publishes the result to the output channel
	workerFunc func(ctx context.Context, item interface{}, outc chan<- Event) error
)

// Generate converts output of a generateFunc to channel of Event
// the only way to close the output channel is to return an error from the generateFunc
// or to cancel the context. if generateFunc returns nil as the value, Generate won't put it to the channel
func Generate(ctx context.Context, fn generateFunc) (<-chan Event, <-chan error) {
	outc := make(chan Event)
	errc := make(chan error, 1)
	go func() {
		defer func() {
			close(outc)
			close(errc)
		}()
		for {
			res, err := fn()
			if err != nil {
				errc <- err
				return
			}
			if res == nil { // only non nil res is put to out channel
				continue
			}
			select {
			case <-ctx.Done():
				errc <- ErrCanceled
				return
			case outc <- res:
			}
		}
	}()

	return outc, errc
}

// Sink is a sinker which runs an eachFunc on each event
// it is the final stage of the pipeline as it does not produce any channel
func Sink(ctx context.Context, ch <-chan Event, fn eachFunc) error {
	for r := range ch {
		select {
		case <-ctx.Done():
			return ErrCanceled
		default:
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WorkerPool fans out the input channel to N worker which all publish on the output channel
// if a worker returns an error during the consumption, the pool skips the current event
// and keeps the worker for the next item. Only the first error of each worker is reported.
func WorkerPool(ctx context.Context, concurrency int, inc <-chan Event, worker workerFunc) (<-chan Event, <-chan error) {
	var wg sync.WaitGroup
	outc := make(chan Event)
	errc := make(chan error, concurrency)

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			reported := false
			for item := range inc {
				err := worker(ctx, item, outc)
				if err != nil && !reported {
					errc <- err
					reported = true
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outc)
		close(errc)
	}()

	return outc, errc
}

// MergeErrors is a transformer which merges all input error channels into one output channel
func MergeErrors(ctx context.Context, errs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	outc := make(chan error, len(errs))
	output := func(errc <-chan error) {
		defer wg.Done()
		for e := range errc {
			select {
			case outc <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(errs))
	for _, errc := range errs {
		go output(errc)
	}

	go func() {
		wg.Wait()
		close(outc)
	}()

	return outc
}
