package service

import (
	"context"
	"errors"
	"sync"
)

// TaskError accumulates multiple errors produced during bulk seeding.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkSeeder loads celebrity and node datasets into the store using worker
// pools.
type BulkSeeder struct {
	service *AccessService
	workers int
}

// NewBulkSeeder creates a BulkSeeder with the provided concurrency.
func NewBulkSeeder(service *AccessService, workers int) *BulkSeeder {
	if workers <= 0 {
		workers = 4
	}
	return &BulkSeeder{
		service: service,
		workers: workers,
	}
}

// SeedCelebrities stores the provided celebrity profiles concurrently.
func (bs *BulkSeeder) SeedCelebrities(ctx context.Context, celebs []CelebrityInput) error {
	return bs.run(ctx, len(celebs), func(idx int) error {
		return bs.service.CreateCelebrity(ctx, celebs[idx])
	})
}

// SeedNodes stores the provided warm nodes concurrently. Celebrities must
// already exist.
func (bs *BulkSeeder) SeedNodes(ctx context.Context, seeds []NodeSeed) error {
	return bs.run(ctx, len(seeds), func(idx int) error {
		_, err := bs.service.AddNode(ctx, seeds[idx].CelebrityID, seeds[idx].Node)
		return err
	})
}

func (bs *BulkSeeder) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bs.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
