// Package merge drives complex field resolution over whole documents.
//
// A merge pass copies the content to merge, canonicalizes and resolves every
// field of the copy, and only then replaces the original content with the
// result. A pass that fails leaves the document as it was.
package merge

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/fldmerge/field"
	"github.com/ardnew/fldmerge/pkg"
	"github.com/ardnew/fldmerge/tree"
)

// Merger merges data into documents. A Merger is safe for concurrent use;
// the documents it merges are not.
type Merger struct {
	config
	engine *field.Engine
}

// New returns a merger configured by opts.
func New(opts ...Option) *Merger {
	cfg := makeConfig(opts...)

	return &Merger{
		config: cfg,
		engine: field.NewEngine(cfg.registry, cfg.logger),
	}
}

func (m *Merger) env(doc any, data field.Data) field.Env {
	return field.Env{
		Document: doc,
		Language: m.language,
		Data:     data,
		Format:   m.formatter,
		Logger:   m.logger,
	}
}

// Merge resolves every field below root and replaces the content of root
// with the result.
func (m *Merger) Merge(
	ctx context.Context,
	doc *tree.Document,
	root tree.Handle,
	data field.Data,
) (PartReport, error) {
	part := &tree.Part{Name: "document", Kind: tree.PartMain, Doc: doc}

	sub, rep, err := m.resolve(ctx, part, root, data)
	if err != nil {
		return rep, err
	}

	if err := doc.Graft(root, sub); err != nil {
		return rep, pkg.ErrMerge.Wrap(err).With(slog.String("part", part.Name))
	}

	return rep, nil
}

// MergePackage merges every main part of p and, when enabled with
// [WithHeadersFooters], every header and footer part. Parts are merged
// concurrently. The parts are updated only if all of them merge.
func (m *Merger) MergePackage(ctx context.Context, p *tree.Package, data field.Data) (Report, error) {
	var parts []*tree.Part

	for _, part := range p.Parts {
		if part == nil || part.Doc == nil {
			continue
		}

		switch part.Kind {
		case tree.PartMain:
			parts = append(parts, part)

		case tree.PartHeader, tree.PartFooter:
			if m.headersFooters {
				parts = append(parts, part)
			}
		}
	}

	subs := make([]*tree.Document, len(parts))
	rep := Report{Parts: make([]PartReport, len(parts))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, part := range parts {
		g.Go(func() error {
			sub, r, err := m.resolve(gctx, part, part.Doc.Root(), data)
			subs[i], rep.Parts[i] = sub, r

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return rep, err
	}

	for i, part := range parts {
		if err := part.Doc.Graft(part.Doc.Root(), subs[i]); err != nil {
			return rep, pkg.ErrMerge.Wrap(err).With(slog.String("part", part.Name))
		}
	}

	m.logger.InfoContext(ctx, "merged package",
		slog.Int("parts", len(parts)),
		slog.Int("fields", rep.Fields()),
		slog.Int("written", rep.Written()),
	)

	return rep, nil
}

// resolve merges a copy of the subtree at root and returns the copy.
func (m *Merger) resolve(
	ctx context.Context,
	part *tree.Part,
	root tree.Handle,
	data field.Data,
) (*tree.Document, PartReport, error) {
	rep := PartReport{Part: part.Name, Kind: part.Kind}

	fail := func(err error) (*tree.Document, PartReport, error) {
		return nil, rep, pkg.ErrMerge.Wrap(err).With(
			slog.String("part", part.Name),
			slog.String("kind", part.Kind.String()),
		)
	}

	sub, err := part.Doc.Subtree(root)
	if err != nil {
		return fail(err)
	}

	refs, located, err := field.NewCanonicalizer(m.logger).Run(ctx, sub, sub.Root())

	rep.Located, rep.Fields = located, len(refs)

	if err != nil {
		return fail(err)
	}

	written, err := m.engine.Apply(ctx, refs, m.env(part.Doc, data))

	rep.Written = written

	if err != nil {
		return fail(err)
	}

	m.logger.DebugContext(ctx, "merged part", slog.Any("report", rep))

	return sub, rep, nil
}

// Fields returns the canonical fields below root without resolving them.
// The document is not modified; the fields are views over a copy.
func (m *Merger) Fields(ctx context.Context, doc *tree.Document, root tree.Handle) ([]*field.Ref, error) {
	sub, err := doc.Subtree(root)
	if err != nil {
		return nil, err
	}

	refs, _, err := field.NewCanonicalizer(m.logger).Run(ctx, sub, sub.Root())
	if err != nil {
		return nil, pkg.ErrMerge.Wrap(err)
	}

	return refs, nil
}

// Eval resolves a single field code against data. Braces outside double
// quotes delimit nested fields, so
//
//	IF { MERGEFIELD Status } = "Gold" "Thanks!" "Welcome."
//
// compares the value of the Status field. A code with an unclosed brace is
// an unterminated field.
func (m *Merger) Eval(ctx context.Context, code string, data field.Data) (string, bool, error) {
	doc := tree.Build(tree.Body(tree.P(codeSpecs(code)...)))

	refs, _, err := field.NewCanonicalizer(m.logger).Run(ctx, doc, doc.Root())
	if err != nil {
		return "", false, pkg.ErrMerge.Wrap(err)
	}

	if len(refs) == 0 {
		return "", false, nil
	}

	return m.engine.Resolve(ctx, refs[0], m.env(doc, data))
}
