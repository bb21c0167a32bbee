package cryptdoc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ParallelConfig controls parallel document verification
type ParallelConfig struct {
	// MaxWorkers is the maximum number of worker goroutines
	// If 0, defaults to runtime.NumCPU()
	MaxWorkers int

	// MinDocsForParallel is the minimum number of documents to use parallel processing
	// Below this threshold, sequential processing is used
	// Defaults to 4
	MinDocsForParallel int
}

// Validate checks if the parallel configuration is valid
func (p *ParallelConfig) Validate() error {
	if p.MaxWorkers < 0 {
		return errors.New("parallel max workers cannot be negative")
	}
	if p.MaxWorkers > 1024 {
		return errors.New("parallel max workers must not exceed 1024")
	}
	if p.MinDocsForParallel < 0 {
		return errors.New("parallel min documents threshold cannot be negative")
	}
	if p.MinDocsForParallel > 1000 {
		return errors.New("parallel min documents threshold must not exceed 1000")
	}
	return nil
}

// DefaultParallelConfig returns the default parallel processing configuration
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers:         runtime.NumCPU(),
		MinDocsForParallel: 4,
	}
}

// VerifyResult is the outcome of verifying one document
type VerifyResult struct {
	Name string
	Err  error // nil when the digest matches
}

// VerifyAll checks the integrity digest of every named document. A nil
// names slice verifies everything List returns. Results are in input
// order; each check is independent, so one failure never stops the rest.
func (s *Store) VerifyAll(names []string, cfg ParallelConfig) ([]VerifyResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewValidationError("parallel", cfg, err.Error())
	}

	if names == nil {
		docs, err := s.List()
		if err != nil {
			return nil, err
		}
		names = make([]string, len(docs))
		for i, d := range docs {
			names[i] = d.Name
		}
	}

	results := make([]VerifyResult, len(names))
	for i, n := range names {
		results[i].Name = n
	}
	if len(names) == 0 {
		return results, nil
	}

	numWorkers := cfg.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(names) {
		numWorkers = len(names)
	}

	minDocs := cfg.MinDocsForParallel
	if minDocs == 0 {
		minDocs = DefaultParallelConfig().MinDocsForParallel
	}

	// Sequential processing
	if len(names) < minDocs || numWorkers == 1 {
		for i := range results {
			results[i].Err = s.Verify(results[i].Name)
		}
		return results, nil
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, len(names))

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx].Err = s.verifyRecover(results[idx].Name)
			}
		}()
	}

	for i := range names {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	return results, nil
}

// verifyRecover converts a panic in one worker into that document's error
func (s *Store) verifyRecover(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in verification worker: %v", r)
		}
	}()
	return s.Verify(name)
}
