package lua

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/protoplan/log"
	"github.com/ardnew/protoplan/pkg"
)

// Context accumulates the top-level forms of one source file: bindings and
// function definitions keyed by name (last write wins), and the ordered list
// of values captured from data:extend registration calls.
//
// A Context must not be shared across concurrent parses. Parse files
// concurrently by giving each its own Context and merging afterward.
type Context struct {
	Bindings      map[string]*Expr
	Functions     map[string]*Function
	Registrations []*Value

	logger log.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// NewContext creates an empty accumulator.
func NewContext(opts ...Option) *Context {
	c := &Context{
		Bindings:  make(map[string]*Expr),
		Functions: make(map[string]*Function),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ParseAll parses an entire source file, folding every top-level form into
// the accumulator. Registration values are simplified before they are
// recorded.
//
// Any form that matches no alternative fails the whole pass. The tables are
// mutated only after a form fully parses, so a failed pass leaves the
// accumulator exactly as the last successful form left it.
func (c *Context) ParseAll(ctx context.Context, src string) error {
	p := newParser(src)
	p.skipTrivia()

	for !p.eof() {
		if v, ok := p.parseDataExtend(); ok {
			c.Registrations = append(c.Registrations, v.Simplify())

			c.logger.TraceContext(ctx, "registration",
				slog.Int("ordinal", len(c.Registrations)))

			continue
		}

		if name, e, ok := p.parseLocal(); ok {
			c.Bindings[name] = e

			c.logger.TraceContext(ctx, "binding", slog.String("name", name))

			continue
		}

		if name, fn, ok := p.parseNamedFunction(); ok {
			c.Functions[name] = fn

			c.logger.TraceContext(ctx, "function", slog.String("name", name))

			continue
		}

		if _, ok := p.parseStmt(); ok {
			continue
		}

		return pkg.ErrParse.Wrap(p.syntaxError())
	}

	c.logger.TraceContext(ctx, "parse complete",
		slog.Int("bindings", len(c.Bindings)),
		slog.Int("functions", len(c.Functions)),
		slog.Int("registrations", len(c.Registrations)))

	return nil
}

// ParseReader reads all of r and parses it with ParseAll.
func (c *Context) ParseReader(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err)
	}

	return c.ParseAll(ctx, string(data))
}

// ParseDataExtend parses a single data:extend(...) call in isolation and
// returns its simplified argument value. Input following the call is
// ignored.
func ParseDataExtend(src string) (*Value, error) {
	p := newParser(src)
	p.skipTrivia()

	v, ok := p.parseDataExtend()
	if !ok {
		return nil, pkg.ErrParse.Wrap(p.syntaxError())
	}

	return v.Simplify(), nil
}

// ParseValue parses a single literal value in isolation and returns it
// simplified. The entire input must be consumed.
func ParseValue(src string) (*Value, error) {
	p := newParser(src)
	p.skipTrivia()

	v, ok := p.parseValue()
	if !ok {
		return nil, pkg.ErrParse.Wrap(p.syntaxError())
	}

	if !p.eof() {
		return nil, pkg.ErrParse.Wrap(
			ErrTrailingInput.With(slog.Int("offset", p.pos)))
	}

	return v.Simplify(), nil
}
