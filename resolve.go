package main

// nextToken flushes output before the source may block for more input.
func (vm *VM) nextToken() (string, error) {
	if !vm.in.Buffered() {
		vm.flush()
	}
	return vm.in.NextToken()
}

// promptIfNeeded sets the mode's prompt on an interactive source that is
// about to read a new line.
func (vm *VM) promptIfNeeded() {
	if p, ok := vm.in.(prompter); ok && !vm.in.Buffered() {
		p.Prompt(vm.mode.prompt())
	}
}

// prompt resolves tokens until the end of the current input unit. A call to a
// compiled word ends the unit early, so that control returns to the dispatch
// loop to run the word.
func (vm *VM) prompt() error {
	vm.promptIfNeeded()
	for {
		if more, err := vm.read(); err != nil || !more {
			return err
		}
	}
}

// read resolves the next token, returning false at the end of a unit.
func (vm *VM) read() (bool, error) {
	token, err := vm.nextToken()
	if err != nil || token == "" {
		return false, err
	}
	return true, vm.resolve(token)
}

// resolve runs, compiles, or pushes a token:
//   - immediate words always run
//   - other words are compiled as calls in compile mode, run otherwise
//   - numbers are compiled as pushes in compile mode, pushed otherwise
func (vm *VM) resolve(token string) error {
	if id, defined := vm.funcs.lookup(token); defined {
		fn, _ := vm.funcs.get(id)
		if nat, isNative := fn.def.(native); isNative && nat.immediate {
			vm.logf("immediate %v", token)
			return vm.invoke(id)
		}

		if vm.mode == compileMode {
			vm.logf("compile %v -> call(%v)", token, id)
			vm.compile(instruction{op: opCall, arg: id})
			return nil
		}

		vm.logf("call %v", token)
		if err := vm.invoke(id); err != nil {
			return err
		}
		if _, isCompiled := fn.def.(*compiled); isCompiled {
			vm.in.PrependEmptyUnit()
		}
		return nil
	}

	n, ok := parseNumber(token)
	if !ok {
		return unresolvedError(token)
	}
	if vm.mode == compileMode {
		vm.logf("compile %v -> push(%v)", token, n)
		vm.compile(instruction{op: opPush, num: n})
	} else {
		vm.push(n)
	}
	return nil
}

func (vm *VM) compile(ins instruction) {
	vm.defining.body = append(vm.defining.body, ins)
}

// define implements ":" by reading the next name, across input units if need
// be, and starting an empty definition under it.
func (vm *VM) define() error {
	vm.mode = compileMode

	var name string
	for name == "" {
		vm.promptIfNeeded()
		token, err := vm.nextToken()
		if err != nil {
			return err
		}
		name = token
	}

	if _, defined := vm.funcs.lookup(name); defined {
		vm.endDefine()
		return duplicateError(name)
	}

	vm.defining = &compiled{}
	vm.defName = name
	vm.funcs.define(name, vm.defining)
	vm.logf("define %v", name)
	return nil
}

// endDefine implements ";" by finishing any definition with a return, and
// going back to execute mode.
func (vm *VM) endDefine() error {
	vm.mode = executeMode
	if vm.defining != nil {
		vm.compile(instruction{op: opReturn})
		vm.logf("defined %v %v", vm.defName, vm.defining.body)
		vm.defining = nil
		vm.defName = ""
	}
	return nil
}
