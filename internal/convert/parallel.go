package convert

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/cnr-ibba/smarter-backend/internal/calls"
	"github.com/cnr-ibba/smarter-backend/internal/genotype"
)

// WorkItem holds a parsed call ready for conversion.
type WorkItem struct {
	Seq  int
	Call *calls.Call
}

// WorkResult holds the conversion output for a single call.
type WorkResult struct {
	Seq    int
	Call   *calls.Call
	Result Result
	Err    error
}

// CallReader is the interface for readers that yield genotype calls.
type CallReader interface {
	// Next returns nil, nil when there are no more calls.
	Next() (*calls.Call, error)
}

// ResultWriter defines the interface for writing converted calls.
type ResultWriter interface {
	WriteHeader() error
	Write(sample string, r Result) error
	Flush() error
}

// Stats counts the outcome of ConvertAll.
type Stats struct {
	Converted int
	Failed    int
}

// Job fixes the assembly and coding shared by all calls of a run.
type Job struct {
	Assembly string
	Coding   genotype.Coding
	Missing  string
	Workers  int
}

// workerCount resolves Workers, using one worker per CPU when unset.
func (j Job) workerCount() int {
	if j.Workers <= 0 {
		return runtime.NumCPU()
	}
	return j.Workers
}

func (j Job) request(c *calls.Call) Request {
	return Request{
		Variant:  c.Variant,
		Assembly: j.Assembly,
		Coding:   j.Coding,
		Genotype: c.Genotype(),
		Missing:  j.Missing,
	}
}

// ParallelConvert converts work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If job.Workers is 0, runtime.NumCPU() is used.
func (c *Converter) ParallelConvert(items <-chan WorkItem, job Job) <-chan WorkResult {
	workers := job.workerCount()
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				res, err := c.Convert(job.request(item.Call))
				results <- WorkResult{
					Seq:    item.Seq,
					Call:   item.Call,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ConvertAll converts every call from reader and writes the results in
// input order. Calls that cannot be converted are logged and skipped.
func (c *Converter) ConvertAll(reader CallReader, writer ResultWriter, job Job) (Stats, error) {
	var stats Stats

	if err := writer.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	items := make(chan WorkItem, 2*job.workerCount())
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			call, err := reader.Next()
			if err != nil {
				readErr = fmt.Errorf("read call: %w", err)
				return
			}
			if call == nil {
				return
			}
			items <- WorkItem{Seq: seq, Call: call}
			seq++
		}
	}()

	results := c.ParallelConvert(items, job)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			stats.Failed++
			c.logger.Warn("failed to convert call",
				zap.String("sample", r.Call.Sample),
				zap.String("variant", r.Call.Variant),
				zap.Stringer("genotype", r.Call.Genotype()),
				zap.Error(r.Err))
			return nil
		}
		stats.Converted++
		if err := writer.Write(r.Call.Sample, r.Result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}); err != nil {
		return stats, err
	}

	if readErr != nil {
		return stats, readErr
	}

	if stats.Converted+stats.Failed == 0 {
		c.logger.Info("0 calls processed")
	}

	return stats, writer.Flush()
}
