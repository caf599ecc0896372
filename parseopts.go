package rdpcalc

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name  string
		val   float64
		flags Flags
	}
	limitopt   int
	capopt     int
	nofuncsopt struct{}
	precopt    uint
)

func (varopt) ctxOption()     {}
func (limitopt) ctxOption()   {}
func (capopt) ctxOption()     {}
func (nofuncsopt) ctxOption() {}
func (precopt) ctxOption()    {}

// SetVar binds a mutable variable in the context. NewContext panics if the
// name is already bound read-only by an earlier option or cannot lex as an
// identifier.
func SetVar(name string, val float64) ContextOption {
	return varopt{name: name, val: val}
}

// SetConst binds a read-only name in the context. Programs evaluated with the
// context cannot assign to it.
func SetConst(name string, val float64) ContextOption {
	return varopt{name: name, val: val, flags: ReadOnly}
}

// InputLimit sets the number of bytes read from each program's input. Input
// past the limit is ignored. Non-positive limits mean DefaultInputLimit.
func InputLimit(n int) ContextOption {
	return limitopt(n)
}

// TableCapacity sets the initial bucket count of the context's symbol table.
func TableCapacity(n int) ContextOption {
	return capopt(n)
}

// DisableDefaultFuncs makes the builtin function names lex as ordinary
// identifiers, so they can be bound as variables.
func DisableDefaultFuncs() ContextOption {
	return nofuncsopt{}
}

// Prec sets the mantissa size in bits for powers, factorials, cube roots and
// logarithms, which are then computed at that precision and rounded to
// float64. Zero, the default, computes everything in float64.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}
