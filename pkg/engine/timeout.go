package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/topoview/pkg/kernel"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned by an evaluation that finished after a newer
// one was started.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult passes evaluation results through channels.
type evalResult struct {
	mesh   *kernel.Mesh
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds EvalTimeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*kernel.Mesh, []EvalError, error) {
	return waitFor(ch, gen, mu, currentGen, EvalTimeout)
}

func waitFor(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	limit time.Duration,
) (*kernel.Mesh, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.mesh, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	}
}
