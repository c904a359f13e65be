package main

// Word is a native word, run directly by the VM.
// An immediate word runs when resolved, even while compiling.
type Word struct {
	Name      string
	Run       func(vm *VM) error
	Immediate bool
}

// definition is either native or *compiled.
type definition interface{ isDefinition() }

type native struct {
	run       func(vm *VM) error
	immediate bool
}

// compiled is a body of instructions run by the dispatch loop; every body
// created by : ends with a return.
type compiled struct {
	body []instruction
}

func (native) isDefinition()    {}
func (*compiled) isDefinition() {}

type function struct {
	name string
	def  definition
}

// functions is the append-only function table. Lookup is first-match by
// name, kept in a name index so that the first entry to claim a name keeps it.
type functions struct {
	table []function
	names map[string]int
}

func (fns *functions) lookup(name string) (id int, defined bool) {
	id, defined = fns.names[name]
	return id, defined
}

// define appends an entry; rejecting duplicate names is up to the caller.
// An empty name is never indexed, so the entry can't be looked up.
func (fns *functions) define(name string, def definition) int {
	id := len(fns.table)
	fns.table = append(fns.table, function{name, def})
	if name != "" {
		if fns.names == nil {
			fns.names = make(map[string]int)
		}
		if _, defined := fns.names[name]; !defined {
			fns.names[name] = id
		}
	}
	return id
}

func (fns *functions) get(id int) (fn function, ok bool) {
	if id >= 0 && id < len(fns.table) {
		return fns.table[id], true
	}
	return function{}, false
}

func (fns *functions) size() int { return len(fns.table) }

func (fns *functions) name(id int) string {
	if fn, ok := fns.get(id); ok {
		return fn.name
	}
	return ""
}

// body returns the instructions of a compiled entry, or nil.
func (fns *functions) body(id int) []instruction {
	if fn, ok := fns.get(id); ok {
		if c, ok := fn.def.(*compiled); ok {
			return c.body
		}
	}
	return nil
}
