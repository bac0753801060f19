package pipeline

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		generator func() generateFunc
		check     func(items <-chan Event, errc <-chan error)
	}{
		{
			name: "generates 10 numbers",
			generator: func() generateFunc {
				i := 0
				return func() (interface{}, error) {
					i++
					if i <= 10 {
						return rand.Int(), nil
					}
					return 0, assert.AnError
				}
			},
			check: func(items <-chan Event, errc <-chan error) {
				count := 0
				for range items {
					count++
				}
				assert.Equal(t, 10, count)
				assert.Equal(t, assert.AnError, <-errc)
			},
		},
		{
			name: "skips nil",
			generator: func() generateFunc {
				i := 0
				return func() (interface{}, error) {
					i++
					if i <= 10 {
						return nil, nil
					}
					return 0, assert.AnError
				}
			},
			check: func(items <-chan Event, errc <-chan error) {
				count := 0
				for range items {
					count++
				}
				assert.Equal(t, 0, count)
				assert.Equal(t, assert.AnError, <-errc)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(Generate(context.TODO(), test.generator()))
		})
	}
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outc, errc := Generate(ctx, func() (interface{}, error) {
		return 1, nil
	})

	// nobody reads outc so the generator can only leave through the context
	assert.Equal(t, ErrCanceled, <-errc)
	for range outc {
	}
}

func TestSink(t *testing.T) {
	tests := []struct {
		name   string
		inc    <-chan Event
		sinker eachFunc
		check  func(err error)
	}{
		{
			name: "runs sink on all items",
			inc:  generateInt(t, []int{1, 2, 3, 4, 5}),
			sinker: func(val interface{}) error {
				return nil
			},
			check: func(err error) {
				assert.Nil(t, err)
			},
		},
		{
			name: "sinker interrupts the sink",
			inc:  generateInt(t, []int{1, 2, 3, 4, 5}),
			sinker: func(val interface{}) error {
				if val.(int) > 3 {
					return assert.AnError
				}
				return nil
			},
			check: func(err error) {
				assert.Equal(t, assert.AnError, err)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(Sink(context.TODO(), test.inc, test.sinker))
		})
	}
}

func TestSink_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Sink(ctx, generateInt(t, []int{1, 2, 3}), func(val interface{}) error {
		calls++
		return nil
	})
	assert.Equal(t, ErrCanceled, err)
	assert.Zero(t, calls)
}

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		inc         <-chan Event
		worker      workerFunc
		check       func(outc <-chan Event, errc <-chan error)
	}{
		{
			name:        "2 adders",
			concurrency: 2,
			inc:         generateInt(t, []int{1, 2, 3, 4, 5}),
			worker: func(ctx context.Context, item interface{}, outc chan<- Event) error {
				outc <- item.(int) * 10
				return nil
			},
			check: func(outc <-chan Event, errc <-chan error) {
				total := 0
				for item := range outc {
					total += item.(int)
				}
				assert.Equal(t, 150, total)
				assert.Nil(t, <-errc)
			},
		},
		{
			name:        "2 adders, failing items are skipped",
			concurrency: 2,
			inc:         generateInt(t, []int{1, 2, 3, 4, 5}),
			worker: func(ctx context.Context, item interface{}, outc chan<- Event) error {
				if item.(int) > 3 {
					return assert.AnError
				}
				outc <- item.(int) * 10
				return nil
			},
			check: func(outc <-chan Event, errc <-chan error) {
				total := 0
				for item := range outc {
					total += item.(int)
				}
				assert.Equal(t, 60, total)
				assert.Equal(t, assert.AnError, <-errc)
			},
		},
		{
			name:        "a single worker reports its first error only",
			concurrency: 1,
			inc:         generateInt(t, []int{1, 2, 3}),
			worker: func(ctx context.Context, item interface{}, outc chan<- Event) error {
				return assert.AnError
			},
			check: func(outc <-chan Event, errc <-chan error) {
				for range outc {
				}
				var errs []error
				for err := range errc {
					errs = append(errs, err)
				}
				assert.Equal(t, []error{assert.AnError}, errs)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(WorkerPool(context.TODO(), test.concurrency, test.inc, test.worker))
		})
	}
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name  string
		errs  []<-chan error
		check func(err <-chan error)
	}{
		{
			name: "3 error channel, one returns io.EOF",
			errs: func() []<-chan error {
				errc1 := make(chan error, 1)
				errc2 := make(chan error, 1)
				errc3 := make(chan error, 1)
				errc2 <- io.EOF
				return []<-chan error{errc1, errc2, errc3}
			}(),
			check: func(errc <-chan error) {
				assert.Equal(t, io.EOF, <-errc)
			},
		},
		{
			name: "closes once every input is closed",
			errs: func() []<-chan error {
				errc1 := make(chan error, 1)
				errc2 := make(chan error, 1)
				errc1 <- assert.AnError
				close(errc1)
				close(errc2)
				return []<-chan error{errc1, errc2}
			}(),
			check: func(errc <-chan error) {
				var errs []error
				for err := range errc {
					errs = append(errs, err)
				}
				assert.Equal(t, []error{assert.AnError}, errs)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(MergeErrors(context.TODO(), test.errs...))
		})
	}
}

func generateInt(t *testing.T, items []int) <-chan Event {
	t.Helper()
	i := 0
	outc, _ := Generate(context.TODO(), func() (interface{}, error) {
		if i >= len(items) {
			return nil, io.EOF
		}
		ret := items[i]
		i++
		return ret, nil
	})
	return outc
}
