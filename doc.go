/* Package main: weakforth, a very small FORTH

FORTH programs are sequences of whitespace separated words. A word is either a
number, which is pushed onto the data stack, or the name of a function, which
is called. Built in functions are indistinguishable from user defined ones,
which are written with a colon definition:

	: sq dup * ;
	4 sq .

weakforth keeps just enough of FORTH to be interesting: numbers (integers, or
floats once any float is involved), a handful of stack and arithmetic words,
and colon definitions. There is no addressable memory, no control flow, and no
strings.

Section 1: The Function Table

Every function lives in an append-only table, addressed by its index. Entry 0
is the top level loop; it has no name, so it can never be called by name. The
native words follow (see primitives.go), then any words registered with
WithWords, then every colon definition in the order it was started. A name is
claimed by the first entry to use it, and can never be redefined.

A compiled body is a list of instructions:

	call(id)   call table entry id
	jump(n)    add n to the program counter
	prompt     show a prompt if nothing is buffered, then resolve words to the
	           end of the input unit
	read       resolve one word
	push(n)    push n onto the data stack
	return     go back to the caller

The top level loop is just [prompt, jump(-2)] for interactive input, or
[read, jump(-2)] when reading a file.

Section 2: The Trampoline

The VM never calls itself recursively to run a compiled function. Its only
loop is in VM.run: fetch the instruction at the program counter, and dispatch
it. Calling a compiled function pushes the caller's function and program
counter onto the return stack, and points the VM at the start of the callee;
return pops them back. Native functions just run. So a deeply recursive
definition only grows the return stack, never Go's.

Section 3: Resolving Words

Input arrives in units: a line for interactive input, and for files too. The
resolver takes each word in turn:

	- an immediate word (only ";") is always run
	- in compile mode, a function becomes a call(id) in the body being defined,
	  and a number a push(n)
	- in execute mode, a function is called and a number pushed

When a compiled function is called from execute mode, the resolver ends the
current unit early: control has to get back to the dispatch loop so that it
can run the function's body. The rest of the line is resolved after it
returns.

":" switches to compile mode and takes the next word, even from the next
line, as the name of a new, empty, definition. ";" ends it with a return, and
switches back to execute mode.

Section 4: Errors

Unknown words, duplicate names, stack underflow, return stack overflow,
integer division by zero, and bad instructions are all recoverable: the
message is reported through the input source, the rest of the unit is
dropped, the return stack is cleared, and the VM starts over at the top level
loop. A file source also drops the rest of the file. Anything else, like an
output error or a return with nothing on the return stack, stops the VM.
*/
package main
