package scriq

import (
	"context"
	"fmt"
)

// ProcedureFunc implements a host procedure. It receives evaluated arguments
// and returns a storable Value, which may be a Future for asynchronous work.
type ProcedureFunc func(ctx context.Context, args []Value) (Value, error)

// Procedure is a host callable resolved by exact name and arity.
type Procedure struct {
	Name  string
	Arity int
	Fn    ProcedureFunc
}

// Signature renders the procedure as name/arity.
func (p Procedure) Signature() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Arity)
}

// ProcedureProvider binds a group of host procedures into an engine.
type ProcedureProvider interface {
	Procedures() []Procedure
}

type procedureKey struct {
	name  string
	arity int
}

func (p Procedure) validate() error {
	if p.Name == "" {
		return fmt.Errorf("procedure name must not be empty")
	}
	if IsReservedName(p.Name) {
		return fmt.Errorf("procedure name %q is reserved", p.Name)
	}
	if p.Arity < 0 {
		return fmt.Errorf("procedure %s has negative arity %d", p.Name, p.Arity)
	}
	if p.Fn == nil {
		return fmt.Errorf("procedure %s has no implementation", p.Signature())
	}
	return nil
}
