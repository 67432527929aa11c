package cos

import (
	"fmt"
	"sync"
)

// maxErrs bounds how many distinct node failures Errs retains; beyond that
// it only keeps a running count, mirroring cmn/cos/err.go's Errs.
const maxErrs = 8

// Errs is a bounded, deduplicating multi-error collector. ExecutionService
// uses one to aggregate every node worker's terminal error so that Join
// reports the first failure together with how many more occurred.
type Errs struct {
	mu   sync.Mutex
	errs []error
	cnt  int
}

// Add records err, unless an error with the same message was already
// recorded. A nil err is ignored.
func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, seen := range e.errs {
		if seen.Error() == err.Error() {
			e.cnt++
			return
		}
	}
	e.cnt++
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
	}
}

// Cnt returns the total number of Add calls with a non-nil error,
// duplicates included, and including ones dropped once the retention bound
// was hit.
func (e *Errs) Cnt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cnt
}

// Err returns nil if nothing was recorded, the sole error if exactly one
// distinct error was recorded, or a summarizing error naming the count and
// the first failure otherwise.
func (e *Errs) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	if len(e.errs) == 1 {
		return e.errs[0]
	}
	return fmt.Errorf("%w (and %d more error(s))", e.errs[0], e.cnt-1)
}
