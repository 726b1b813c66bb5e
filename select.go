package flagreg

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator reports that no selection engine could be resolved.
var ErrNoEvaluator = errors.New("flagreg: evaluator not configured")

// Select returns the registered flags, retired ones included, whose
// metadata satisfies expr. The expression sees the descriptor's
// identity binding (name, filename, typename, retired), both as
// top-level variables and under "flag", and must evaluate to a bool.
// Select never exposes flag values; it is a catalog query.
func (r *Registry) Select(expr string) ([]Flag, error) {
	return r.SelectWith(RuleContext{}, expr)
}

// SelectWith is Select with caller-supplied Args and Metadata made
// available to the expression. ctx.Flag is overwritten per descriptor.
func (r *Registry) SelectWith(ctx RuleContext, expr string) ([]Flag, error) {
	if expr == "" {
		return nil, fmt.Errorf("flagreg: selection expression must not be empty")
	}
	evaluator, err := r.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, err
	}

	// Copy descriptors and bindings out under the lock, evaluate after
	// releasing it; expressions never run while the registry is locked.
	type candidate struct {
		flag    Flag
		binding map[string]any
	}
	var candidates []candidate
	r.Each(func(flag Flag) {
		candidates = append(candidates, candidate{flag: flag, binding: flagBinding(flag)})
	})

	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	logger := r.evaluatorLogger()

	var selected []Flag
	for _, c := range candidates {
		evalCtx := ctx
		evalCtx.Flag = c.binding

		start := time.Now()
		value, evalErr := rule.Evaluate(evalCtx)
		duration := time.Since(start)
		evalErr = wrapEvaluationError("", expr, evalCtx.flagLabel(), evalErr)
		logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expr,
			Flag:     evalCtx.flagLabel(),
			Duration: duration,
			Err:      evalErr,
		})
		if evalErr != nil {
			return nil, evalErr
		}
		match, ok := value.(bool)
		if !ok {
			return nil, &EvaluationError{
				Engine: engine,
				Expr:   expr,
				Flag:   evalCtx.flagLabel(),
				Err:    fmt.Errorf("selection expression must return a bool, got %T", value),
			}
		}
		if match {
			selected = append(selected, c.flag)
		}
	}
	return selected, nil
}

// SelectFlags queries the Default registry.
func SelectFlags(expr string) ([]Flag, error) {
	return Default().Select(expr)
}

func (r *Registry) resolveEvaluator() (Evaluator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.evaluator != nil {
		return r.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := r.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := r.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	r.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (r *Registry) evaluatorLogger() EvaluatorLogger {
	if r.cfg.evalLogger != nil {
		return r.cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}
