package bed

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/genomekit/genepred/internal/feature"
)

// WorkItem holds one raw BED line ready for parsing. Each line's parse is
// self-contained, so items can be handled on any worker.
type WorkItem struct {
	Seq     int
	Line    string
	LineNum int
}

// WorkResult holds the parse output for a single line.
type WorkResult struct {
	Seq     int
	LineNum int
	Feature *feature.Feature
	Err     error
}

// ParallelParse parses work items using a pool of workers. Results are
// sent to the returned channel in arrival order (not sequence order); use
// OrderedCollect to consume them in sequence-number order. If workers is
// 0, runtime.NumCPU() is used.
func ParallelParse(items <-chan WorkItem, width Width, additional, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				f, err := ParseLine(item.Line, item.LineNum, width, additional)
				results <- WorkResult{
					Seq:     item.Seq,
					LineNum: item.LineNum,
					Feature: f,
					Err:     err,
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

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number
// arrives. Blocks until the results channel is closed.
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

// ParseAll reads every record from r on a worker pool and returns the
// features in input order.
func ParseAll(r io.Reader, width Width, additional, workers int) ([]*feature.Feature, error) {
	if !width.Valid() {
		return nil, fmt.Errorf("unsupported BED width %d", width)
	}

	items := make(chan WorkItem, 2*runtime.NumCPU())
	var scanErr error

	go func() {
		defer close(items)
		scanner := bufio.NewScanner(r)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		seq := 0
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "track") || strings.HasPrefix(trimmed, "browser") {
				continue
			}
			items <- WorkItem{Seq: seq, Line: line, LineNum: lineNum}
			seq++
		}
		if err := scanner.Err(); err != nil {
			scanErr = fmt.Errorf("scan BED: %w", err)
		}
	}()

	var feats []*feature.Feature
	err := OrderedCollect(ParallelParse(items, width, additional, workers), func(r WorkResult) error {
		if r.Err != nil {
			return r.Err
		}
		feats = append(feats, r.Feature)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return feats, nil
}
