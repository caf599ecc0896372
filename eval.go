package rdpcalc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	"github.com/emirpasic/gods/maps/treemap"
)

// ErrInvalidName is returned when binding a name that cannot lex as an
// identifier, such as a function name or a constant.
var ErrInvalidName = errors.New("rdpcalc: invalid variable name")

// Context is a context for evaluating programs. Its symbol table outlives
// each evaluation, so names bound by one program are visible to the next. It
// is not safe to use a Context concurrently.
type Context struct {
	syms  *SymbolTable
	words map[string]Kind
	limit int
	prec  uint
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	capacity := DefaultTableCapacity
	// The table must exist before any variables are set, so find its size
	// first. The last setting wins.
	for i := len(opts) - 1; i >= 0; i-- {
		if c, ok := opts[i].(capopt); ok {
			capacity = int(c)
			break
		}
	}
	ctx := Context{
		syms:  NewSymbolTable(capacity),
		words: funcwords,
		limit: DefaultInputLimit,
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil, capopt:
			// Nothing to do.
		case limitopt:
			ctx.limit = int(opt)
		case nofuncsopt:
			ctx.words = map[string]Kind{}
		case precopt:
			ctx.prec = uint(opt)
		case varopt:
			// Bound below.
		default:
			panic("rdpcalc: unknown option type")
		}
	}
	// Names are checked against the final set of function words.
	for _, opt := range opts {
		if opt, ok := opt.(varopt); ok {
			if err := ctx.bind(opt.name, Descriptor{Value: opt.val, Flags: opt.flags}); err != nil {
				panic(err)
			}
		}
	}
	return &ctx
}

// Eval reads a program from src and evaluates it. Evaluation stops at the
// first error. Assignments that completed before the error remain bound.
func (ctx *Context) Eval(src io.Reader) (float64, error) {
	scan, err := newLexer(src, ctx.limit, ctx.words)
	if err != nil {
		return 0, err
	}
	p := parser{scan: scan, syms: ctx.syms, prec: ctx.prec}
	v, err := p.run()
	if err != nil {
		log.LogVf("evaluation failed: %v", err)
		return 0, err
	}
	log.LogVf("evaluated to %g", v)
	return v, nil
}

// EvalString is a shortcut to evaluate a program held in a string.
func (ctx *Context) EvalString(src string) (float64, error) {
	return ctx.Eval(strings.NewReader(src))
}

// Set binds a mutable variable. Setting a read-only name fails with a
// *ConstError, and a name that programs could not refer to fails with
// ErrInvalidName.
func (ctx *Context) Set(name string, value float64) error {
	return ctx.bind(name, Descriptor{Value: value})
}

// SetConst binds a read-only name. Setting a name that is already read-only
// fails with a *ConstError.
func (ctx *Context) SetConst(name string, value float64) error {
	return ctx.bind(name, Descriptor{Value: value, Flags: ReadOnly})
}

func (ctx *Context) bind(name string, d Descriptor) error {
	if !ctx.isName(name) {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	if old := ctx.syms.Find(name); old != nil && old.IsConst() {
		return &ConstError{Name: name}
	}
	return ctx.set(name, d)
}

// isName reports whether name lexes as a single identifier in ctx.
func (ctx *Context) isName(name string) bool {
	if name == "" || !isLetter(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isLetter(name[i]) && !isDigit(name[i]) {
			return false
		}
	}
	if _, ok := ctx.words[name]; ok {
		return false
	}
	_, ok := constants[name]
	return !ok
}

// Prec returns the mantissa size used for extended precision operations, or
// 0 if the context computes entirely in float64.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// set binds a name regardless of flags.
func (ctx *Context) set(name string, d Descriptor) error {
	if old := ctx.syms.Find(name); old != nil {
		*old = d
		return nil
	}
	return ctx.syms.Insert(name, d)
}

// Lookup returns the descriptor bound to name.
func (ctx *Context) Lookup(name string) (Descriptor, bool) {
	d := ctx.syms.Find(name)
	if d == nil {
		return Descriptor{}, false
	}
	return *d, true
}

// Binding is a name together with its descriptor.
type Binding struct {
	Name string
	Descriptor
}

// Bindings returns every bound name in lexical order.
func (ctx *Context) Bindings() []Binding {
	m := treemap.NewWithStringComparator()
	ctx.syms.Each(func(name string, d Descriptor) {
		// Each visits the newest entry for a name first.
		if _, found := m.Get(name); !found {
			m.Put(name, d)
		}
	})
	r := make([]Binding, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		r = append(r, Binding{Name: it.Key().(string), Descriptor: it.Value().(Descriptor)})
	}
	return r
}

// Eval is a shortcut to evaluate a program in a new context.
func Eval(src io.Reader, opts ...ContextOption) (float64, error) {
	return NewContext(opts...).Eval(src)
}

// EvalString is a shortcut to evaluate a program held in a string in a new
// context.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}
