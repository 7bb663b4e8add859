// Package filter selects map payloads with expr-lang expressions.
//
// A payload is exposed to expressions as Map, and each of its top-level keys
// is also available directly:
//
//	size >= 4500 and contains(Map.url, "procedural")
package filter

import (
	"fmt"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/rustmaps/rustmaps"
)

// DefaultCacheSize is the number of compiled filters kept by NewCompiler.
const DefaultCacheSize = 64

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a map payload.
func (f *Filter) Match(data any) (bool, error) {
	result, err := expr.Run(f.program, f.environment(data))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "expression did not return a boolean",
			Err:        fmt.Errorf("got %T", result),
		}
	}
	return ok, nil
}

// Evaluate is Match with evaluation errors treated as no match.
func (f *Filter) Evaluate(data any) bool {
	ok, err := f.Match(data)
	return err == nil && ok
}

// Select returns the results whose payload is present and matches.
func (f *Filter) Select(results []rustmaps.MapResult) []rustmaps.MapResult {
	var out []rustmaps.MapResult
	for _, r := range results {
		if r.Data != nil && f.Evaluate(r.Data) {
			out = append(out, r)
		}
	}
	return out
}

func (f *Filter) environment(data any) map[string]any {
	env := make(map[string]any, len(f.helpers)+16)
	if obj, ok := data.(map[string]any); ok {
		maps.Copy(env, obj)
	}
	// Helpers and Map shadow payload keys of the same name.
	maps.Copy(env, f.helpers)
	env["Map"] = data
	return env
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the number of compiled filters to keep. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds helper functions available to expressions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles expressions into filters, caching the results.
type Compiler struct {
	helpers map[string]any
	cache   *lruCache
}

// NewCompiler creates a compiler with the default helpers and cache.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers: helperFunctions(),
		cache:   newLRUCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and compiles an expression. The result must be boolean.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(), // payload keys are only known at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}
	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

var defaultCompiler = NewCompiler()

// Compile compiles an expression with the package-level compiler.
func Compile(expression string) (*Filter, error) {
	return defaultCompiler.Compile(expression)
}

func helperFunctions() map[string]any {
	return map[string]any{
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
