package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/filter"
	"github.com/af-corp/bfhl-service/internal/types"
	"github.com/open-policy-agent/opa/v1/rego"
)

const query = "[data.bfhl.policy.allow, data.bfhl.policy.reason]"

// PolicyInput is the data sent to OPA for evaluation.
type PolicyInput struct {
	Operation string     `json:"operation"`
	Size      int        `json:"size"`
	Time      PolicyTime `json:"time"`
}

type PolicyTime struct {
	Hour int    `json:"hour"`
	Day  string `json:"day"`
}

// Evaluator implements filter.Filter using OPA.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() config.PolicyFilterConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewEvaluator creates a policy evaluator. Call Load() to compile policies.
func NewEvaluator(cfg func() config.PolicyFilterConfig, logger *slog.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, logger: logger, now: time.Now}
}

func (e *Evaluator) Name() string  { return "policy" }
func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the bundle path. On failure the previously
// loaded policies stay in effect.
func (e *Evaluator) Load(ctx context.Context) error {
	dir := e.cfg().BundlePath
	modules, err := readBundle(dir)
	if err != nil {
		return err
	}
	if err := e.compile(ctx, modules); err != nil {
		return err
	}
	e.logger.Info("opa policies loaded", "path", dir, "modules", len(modules))
	return nil
}

// LoadFromModules compiles policies from the given module sources, keyed by file name.
func (e *Evaluator) LoadFromModules(ctx context.Context, sources map[string]string) error {
	modules := make([]module, 0, len(sources))
	for name, src := range sources {
		modules = append(modules, module{name: name, src: src})
	}
	return e.compile(ctx, modules)
}

func (e *Evaluator) compile(ctx context.Context, modules []module) error {
	opts := make([]func(*rego.Rego), 0, len(modules)+1)
	opts = append(opts, rego.Query(query))
	for _, m := range modules {
		opts = append(opts, rego.Module(m.name, m.src))
	}

	prepared, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()
	return nil
}

// Evaluate runs the policy against the given input.
func (e *Evaluator) Evaluate(ctx context.Context, input PolicyInput) (bool, string, error) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		return false, "no policies loaded", nil
	}

	timeout := e.cfg().EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := prepared.Eval(evalCtx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Sprintf("policy evaluation error: %v", err), err
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, "no policy result", nil
	}

	// [allow, reason]
	arr, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(arr) < 2 {
		return false, "unexpected policy result format", nil
	}

	allowed, _ := arr[0].(bool)
	reason, _ := arr[1].(string)

	return allowed, reason, nil
}

// ScanRequest implements filter.Filter. It fails closed.
func (e *Evaluator) ScanRequest(ctx context.Context, req types.Request) filter.Result {
	now := e.now().UTC()
	input := PolicyInput{
		Operation: string(req.Operation()),
		Size:      req.Size(),
		Time: PolicyTime{
			Hour: now.Hour(),
			Day:  now.Weekday().String(),
		},
	}

	allowed, reason, err := e.Evaluate(ctx, input)
	if err != nil {
		e.logger.Error("policy evaluation failed", "operation", input.Operation, "error", err)
		return filter.Result{
			Action:     filter.ActionBlock,
			FilterName: "policy",
			Message:    "Policy evaluation failed: " + err.Error(),
		}
	}

	if !allowed {
		return filter.Result{
			Action:     filter.ActionBlock,
			FilterName: "policy",
			Message:    "Request denied by policy: " + reason,
		}
	}

	return filter.Result{Action: filter.ActionPass, FilterName: "policy"}
}
