package scriq

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config controls evaluation bounds and host wiring.
type Config struct {
	StepQuota        int
	MemoryQuotaBytes int
	// AwaitTimeout bounds the wait for a Future result in synchronous mode.
	// Zero waits until the context is done.
	AwaitTimeout time.Duration
	Stdout       io.Writer
	Logger       *slog.Logger
}

// Engine evaluates script trees against host-registered procedures. It is
// safe for concurrent Eval calls.
type Engine struct {
	config     Config
	procedures map[procedureKey]Procedure
	procMu     sync.RWMutex
}

// EvalOptions selects the result mode and an optional argument cache.
type EvalOptions struct {
	Args  ArgCache
	Async bool
}

// NewEngine constructs an Engine with sane defaults and registers the default
// procedures.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 100000
	}
	if cfg.MemoryQuotaBytes <= 0 {
		cfg.MemoryQuotaBytes = 16 << 20
	}
	if cfg.AwaitTimeout < 0 {
		return nil, fmt.Errorf("await timeout must not be negative, got %s", cfg.AwaitTimeout)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	engine := &Engine{
		config:     cfg,
		procedures: make(map[procedureKey]Procedure),
	}
	if err := engine.Register(defaultProcedures()...); err != nil {
		return nil, err
	}
	return engine, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Register adds host procedures, replacing any with the same name and arity.
func (e *Engine) Register(procs ...Procedure) error {
	for _, p := range procs {
		if err := p.validate(); err != nil {
			return err
		}
	}
	e.procMu.Lock()
	defer e.procMu.Unlock()
	for _, p := range procs {
		e.procedures[procedureKey{name: p.Name, arity: p.Arity}] = p
	}
	return nil
}

// RegisterFunc is Register for a single function.
func (e *Engine) RegisterFunc(name string, arity int, fn ProcedureFunc) error {
	return e.Register(Procedure{Name: name, Arity: arity, Fn: fn})
}

// Use registers every procedure a provider exposes.
func (e *Engine) Use(provider ProcedureProvider) error {
	if provider == nil {
		return fmt.Errorf("nil procedure provider")
	}
	return e.Register(provider.Procedures()...)
}

// Procedures lists the registered procedures ordered by name then arity.
func (e *Engine) Procedures() []Procedure {
	e.procMu.RLock()
	out := make([]Procedure, 0, len(e.procedures))
	for _, p := range e.procedures {
		out = append(out, p)
	}
	e.procMu.RUnlock()
	slices.SortFunc(out, func(a, b Procedure) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Arity, b.Arity)
	})
	return out
}

// HasProcedure reports whether name/arity resolves.
func (e *Engine) HasProcedure(name string, arity int) bool {
	_, ok := e.lookupProcedure(name, arity)
	return ok
}

func (e *Engine) lookupProcedure(name string, arity int) (Procedure, bool) {
	e.procMu.RLock()
	defer e.procMu.RUnlock()
	p, ok := e.procedures[procedureKey{name: name, arity: arity}]
	return p, ok
}

// Eval walks root against env. A nil env starts empty. In synchronous mode a
// Future result is awaited; with opts.Async it is returned pending.
func (e *Engine) Eval(ctx context.Context, root Node, env *Env, opts EvalOptions) (Value, error) {
	if root == nil {
		return NewVoid(), fmt.Errorf("nil syntax tree")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if env == nil {
		env = NewEnv()
	}
	runID := uuid.NewString()
	log := e.config.Logger.With("run", runID)
	started := time.Now()
	log.Debug("eval start", "node", nodeType(root), "async", opts.Async, "vars", env.Len())

	exec := &Execution{
		engine:      e,
		ctx:         ctx,
		env:         env,
		args:        opts.Args,
		quota:       e.config.StepQuota,
		memoryQuota: e.config.MemoryQuotaBytes,
		stdout:      e.config.Stdout,
		log:         log,
	}
	result, err := exec.run(root)
	if err != nil {
		log.Debug("eval failed", "error", err, "steps", exec.steps, "elapsed", time.Since(started))
		return NewVoid(), err
	}
	if result.kind == KindFuture && !opts.Async {
		result, err = exec.await(result.data.(*Future), root.Pos())
		if err != nil {
			log.Debug("eval failed", "error", err, "steps", exec.steps, "elapsed", time.Since(started))
			return NewVoid(), err
		}
	}
	log.Debug("eval done", "result", result.kind.String(), "steps", exec.steps, "elapsed", time.Since(started))
	return result, nil
}

// EvalAsync is Eval returning Future results unresolved.
func (e *Engine) EvalAsync(ctx context.Context, root Node, env *Env, args ArgCache) (Value, error) {
	return e.Eval(ctx, root, env, EvalOptions{Args: args, Async: true})
}

// ConfigSummary provides a human-readable description of the evaluation limits.
func (e *Engine) ConfigSummary() string {
	return fmt.Sprintf("steps=%d memory=%dB await_timeout=%s procedures=%d", e.config.StepQuota, e.config.MemoryQuotaBytes, e.config.AwaitTimeout, len(e.Procedures()))
}
