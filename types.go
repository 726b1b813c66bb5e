package flagreg

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs for one selection-expression
// evaluation. Flag holds the metadata binding of the descriptor under
// evaluation; Args and Metadata are caller-supplied.
type RuleContext struct {
	Flag     map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) flagLabel() string {
	if name, ok := ctx.Flag["name"].(string); ok && name != "" {
		return name
	}
	return "unknown"
}

// flagBinding flattens a descriptor's identity into the evaluation
// environment. The binding is a copy; expressions cannot reach the
// descriptor itself.
func flagBinding(flag Flag) map[string]any {
	return map[string]any{
		"name":     flag.Name(),
		"filename": flag.Filename(),
		"typename": flag.Type().String(),
		"retired":  flag.IsRetired(),
	}
}

// Evaluator executes selection expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// WithEvaluator configures the engine used by Select. The default is
// the expr engine.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *registryConfig) {
		cfg.evaluator = e
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*flagreg.exprEvaluator":
		return "expr"
	case "*flagreg.celEvaluator":
		return "cel"
	case "*flagreg.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
