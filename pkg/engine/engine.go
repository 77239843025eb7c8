// Package engine provides the Lisp evaluation engine for topoview scripts.
// It wraps zygomys in a sandboxed environment and produces a kernel.Mesh
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/topoview/pkg/kernel"
	"github.com/chazu/topoview/pkg/topology"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for mesh scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	kernel kernel.Kernel

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine. k tessellates the box and cylinder
// builtins; with a nil kernel those builtins report an evaluation error.
func NewEngine(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// Evaluate takes Lisp source code and produces a new mesh with one solid
// range per solid form.
//
// Return semantics:
//   - On success: returns mesh + nil errors + nil error
//   - On parse/eval failure: returns nil mesh + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*kernel.Mesh, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{mesh: m, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*kernel.Mesh, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &kernel.Mesh{}, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := newBuildState(e.kernel)
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	m, err := st.result()
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	topology.Logger().Debug("engine: evaluated",
		"vertices", m.VertexCount(),
		"triangles", m.TriangleCount(),
		"solids", len(m.Solids))
	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
