package field

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/fldmerge/grammar"
	"github.com/ardnew/fldmerge/log"
)

// Env is the read-only context of one resolution.
type Env struct {
	// Document is passed through to the formatter untouched.
	Document any
	// Language is the language tag used when the field's own result run
	// carries none.
	Language string
	Data     Data
	Format   Formatter
	Logger   log.Logger
}

// Formatter applies the formatting switches of a parsed instruction to a
// resolved value.
type Formatter interface {
	ApplySwitch(doc any, model *grammar.Model, value, lang string) (string, error)
}

// Resolver computes the value of one kind of field from its instruction.
// A resolver reports false when it has no value; problems with the
// instruction itself are logged through env.Logger and never returned.
type Resolver interface {
	Resolve(ctx context.Context, instruction string, env Env) (string, bool)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, instruction string, env Env) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, instruction string, env Env) (string, bool) {
	return f(ctx, instruction, env)
}

// Registry maps upper-case field names to resolvers.
type Registry map[string]Resolver

// DefaultRegistry returns a registry holding the data-lookup and
// conditional resolvers.
func DefaultRegistry() Registry {
	return Registry{
		grammar.KeywordMergeField: MergeFieldResolver{},
		grammar.KeywordIf:         IfResolver{},
	}
}

// Register sets the resolver of name.
func (r Registry) Register(name string, res Resolver) {
	r[strings.ToUpper(strings.TrimSpace(name))] = res
}

// Lookup returns the resolver of name.
func (r Registry) Lookup(name string) (Resolver, bool) {
	res, ok := r[strings.ToUpper(name)]

	return res, ok
}

// Names returns the registered field names, sorted.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Clone returns a copy of r.
func (r Registry) Clone() Registry { return maps.Clone(r) }
