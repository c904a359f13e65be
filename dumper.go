package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type vmDumper struct {
	vm  *VM
	out io.Writer

	idWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  mode: %v\n", dump.vm.mode)
	fmt.Fprintf(dump.out, "  prog: %v:%v\n", dump.vm.fn, dump.vm.pc)
	if dump.vm.defining != nil {
		fmt.Fprintf(dump.out, "  defining: %v\n", dump.vm.defName)
	}
	dump.dumpStacks()
	dump.dumpFuncs()
}

func (dump *vmDumper) dumpStacks() {
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.vm.stack)
	fmt.Fprintf(dump.out, "  rstack: %v\n", dump.vm.rstack)
}

func (dump *vmDumper) dumpFuncs() {
	fmt.Fprintf(dump.out, "# Functions\n")
	if dump.idWidth == 0 {
		dump.idWidth = len(strconv.Itoa(dump.vm.funcs.size()))
	}
	var buf strings.Builder
	for id := 0; id < dump.vm.funcs.size(); id++ {
		fn, _ := dump.vm.funcs.get(id)
		fmt.Fprintf(&buf, "  @%*d ", dump.idWidth, id)
		dump.formatName(&buf, fn.name)
		switch def := fn.def.(type) {
		case native:
			if def.immediate {
				buf.WriteString(" immediate")
			}
			buf.WriteString(" native")
		case *compiled:
			buf.WriteString(" :")
			for _, ins := range def.body {
				buf.WriteByte(' ')
				dump.formatCode(&buf, ins)
			}
		}
		buf.WriteByte('\n')
		io.WriteString(dump.out, buf.String())
		buf.Reset()
	}
}

// formatCode renders calls by callee name, everything else as the
// instruction's own String form.
func (dump *vmDumper) formatCode(buf *strings.Builder, ins instruction) {
	if ins.op == opCall {
		if fn, ok := dump.vm.funcs.get(ins.arg); ok {
			dump.formatName(buf, fn.name)
			return
		}
	}
	buf.WriteString(ins.String())
}

func (dump *vmDumper) formatName(buf *strings.Builder, name string) {
	if name == "" {
		buf.WriteRune('ø')
	} else {
		buf.WriteString(name)
	}
}
