package graph

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arcwake/wake/cmn/cos"
	"github.com/arcwake/wake/cmn/debug"
	"github.com/arcwake/wake/cmn/nlog"
)

// Runnable is the subset of ExecutionNode a service needs: something that
// runs to completion and reports an id for logging.
type Runnable interface {
	ID() string
	Run()
}

// ExecutionService owns a set of nodes and runs each one on its own
// worker, the way spec.md §4.4 describes. Grounded in
// dsort/dsort.go's `&errgroup.Group{}` usage: an ungrouped errgroup, not
// errgroup.WithContext, so one node's panic or error never cancels its
// siblings — every node still drains to its own EndOfStream or
// Signal(stop) independently ("partial-failure-free concurrent
// termination", spec.md §5).
type ExecutionService struct {
	nodes   []Runnable
	group   *errgroup.Group
	errs    cos.Errs
	running bool
	joined  bool
}

func NewExecutionService() *ExecutionService {
	return &ExecutionService{}
}

// Add registers a node to be run. Adding after Run has been called and
// before the service has been Joined is a protocol violation (spec.md
// §4.4).
func (s *ExecutionService) Add(n Runnable) {
	debug.Assert(!s.running || s.joined, "cannot add a node to a running, unjoined execution service")
	s.nodes = append(s.nodes, n)
}

// Run spawns one worker per registered node and returns immediately; call
// Join to wait for completion. Run may only be called once per run/join
// cycle (spec.md §4.4); calling it twice without an intervening Join is a
// protocol violation asserted in debug builds.
func (s *ExecutionService) Run() {
	debug.Assert(!s.running, "ExecutionService.Run called twice without an intervening Join")
	s.running = true
	s.joined = false
	s.group = &errgroup.Group{}
	for _, n := range s.nodes {
		n := n
		s.group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("node %s panicked: %v", n.ID(), r)
				}
				if err != nil {
					s.errs.Add(err)
				}
			}()
			nlog.Debugf("node %s starting", n.ID())
			n.Run()
			nlog.Debugf("node %s stopped", n.ID())
			return nil
		})
	}
}

// Join waits for every worker to finish and returns the aggregated error,
// or nil if every node exited cleanly. After Join, the service may be Run
// again over the same (or a new) set of nodes.
func (s *ExecutionService) Join() error {
	_ = s.group.Wait()
	s.running = false
	s.joined = true
	if err := s.errs.Err(); err != nil {
		return fmt.Errorf("execution service: %w", err)
	}
	return nil
}
