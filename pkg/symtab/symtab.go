// Package symtab maps local variable names to their slot in the stack frame.
//
// There is a single flat namespace per compilation: blocks do not open new
// scopes, and the first occurrence of a name declares it.
package symtab

// SlotSize is the width of every local in bytes.
const SlotSize = 8

type Local struct {
	Name   string
	Offset int
}

func (l *Local) Len() int {
	return len(l.Name)
}

type Table struct {
	locals []*Local
	byName map[string]*Local
}

func New() *Table {
	return &Table{
		byName: make(map[string]*Local),
	}
}

func (t *Table) Lookup(name string) (*Local, bool) {
	local, ok := t.byName[name]
	return local, ok
}

// Declare appends name with the offset one slot past the last local. It
// does not check for duplicates; use Resolve for that.
func (t *Table) Declare(name string) *Local {
	offset := SlotSize
	if n := len(t.locals); n > 0 {
		offset = t.locals[n-1].Offset + SlotSize
	}

	local := &Local{Name: name, Offset: offset}
	t.locals = append(t.locals, local)
	t.byName[name] = local
	return local
}

// Resolve returns the existing local for name or declares it.
func (t *Table) Resolve(name string) *Local {
	if local, ok := t.Lookup(name); ok {
		return local
	}
	return t.Declare(name)
}

// Locals returns the declared locals in first-seen order.
func (t *Table) Locals() []*Local {
	return t.locals
}

func (t *Table) Len() int {
	return len(t.locals)
}

// FrameSize is the number of bytes the prologue must reserve, rounded up so
// rsp stays 16-byte aligned.
func (t *Table) FrameSize() int {
	size := len(t.locals) * SlotSize
	return (size + 15) &^ 15
}
