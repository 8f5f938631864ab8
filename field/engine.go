package field

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/fldmerge/log"
)

// quoteMark delimits the quoted value of a nested field while an instruction
// is assembled. A quote written by the user right next to a nested field
// merges with the field's own quote, and the mark is removed before the
// instruction is parsed.
const quoteMark = "\uE000"

// Engine resolves fields through a [Registry].
type Engine struct {
	registry Registry
	logger   log.Logger
}

// NewEngine returns an engine that dispatches to the resolvers of reg.
func NewEngine(reg Registry, logger log.Logger) *Engine {
	if reg == nil {
		reg = DefaultRegistry()
	}

	return &Engine{registry: reg, logger: logger}
}

// Resolve returns the value of ref. Nested fields are resolved first and
// inlined into the instruction as quoted literals. A field with no
// registered resolver, or whose resolver declines, has no value.
//
// The only errors are structural: an instruction token that is neither text,
// a nested field, nor an ignorable node.
func (e *Engine) Resolve(ctx context.Context, ref *Ref, env Env) (string, bool, error) {
	return e.newPass(env).resolve(ctx, ref)
}

// Instruction returns the instruction string of ref with every nested field
// resolved and quoted.
func (e *Engine) Instruction(ctx context.Context, ref *Ref, env Env) (string, error) {
	return e.newPass(env).instruction(ctx, ref)
}

// Apply resolves every field of refs and writes each value into its result
// slot, leaving fields without a value untouched. Each field is resolved
// once even when it is reached both through its parent's instruction and on
// its own. Apply returns the number of slots written.
func (e *Engine) Apply(ctx context.Context, refs []*Ref, env Env) (int, error) {
	p := e.newPass(env)
	written := 0

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		value, ok, err := p.resolve(ctx, ref)
		if err != nil {
			return written, err
		}

		if !ok || ref.Written() {
			continue
		}

		if err := ref.SetResult(value); err != nil {
			return written, err
		}

		written++
	}

	return written, nil
}

type outcome struct {
	value string
	ok    bool
}

type pass struct {
	*Engine
	env  Env
	memo map[*Ref]outcome
}

func (e *Engine) newPass(env Env) *pass {
	if env.Logger.Logger == nil {
		env.Logger = e.logger
	}

	return &pass{Engine: e, env: env, memo: make(map[*Ref]outcome)}
}

func (p *pass) resolve(ctx context.Context, ref *Ref) (string, bool, error) {
	if o, ok := p.memo[ref]; ok {
		return o.value, o.ok, nil
	}

	instr, err := p.instruction(ctx, ref)
	if err != nil {
		return "", false, err
	}

	var o outcome

	if res, ok := p.registry.Lookup(ref.Name); ok {
		env := p.env
		if lang := ref.Lang(); lang != "" {
			env.Language = lang
		}

		env.Logger = env.Logger.With(
			slog.String("field", ref.Name),
			slog.String("instruction", instr),
		)

		o.value, o.ok = res.Resolve(ctx, instr, env)
	}

	p.env.Logger.TraceContext(ctx, "resolved field",
		slog.String("field", ref.Name),
		slog.Bool("ok", o.ok),
		slog.String("value", o.value),
	)

	p.memo[ref] = o

	return o.value, o.ok, nil
}

func (p *pass) instruction(ctx context.Context, ref *Ref) (string, error) {
	var sb strings.Builder

	for _, t := range ref.Tokens {
		switch t.Kind {
		case TokenLiteral:
			sb.WriteString(t.Text)

		case TokenField:
			value, ok, err := p.resolve(ctx, t.Field)
			if err != nil {
				return "", err
			}

			if !ok {
				value = ""
			}

			sb.WriteString(quoteMark + `"` + escape(value) + `"` + quoteMark)

		case TokenIgnorable:

		default:
			return "", ErrInvalidToken.With(
				slog.String("field", ref.Name),
				slog.Int("node", int(t.Node)),
				slog.String("kind", ref.doc.Kind(t.Node).String()),
			)
		}
	}

	s := strings.ReplaceAll(sb.String(), `"`+quoteMark+`"`, `"`)

	return strings.ReplaceAll(s, quoteMark, ""), nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(s string) string { return escaper.Replace(s) }
