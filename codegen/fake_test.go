package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// fakeValue is a fake IR value: enough identity to describe an
// instruction's operands in tests, without needing a system LLVM
// install to build against.
type fakeValue struct {
	kind string // const, alloca, load, global, param, call, binary, neg
	desc string
}

func (v *fakeValue) String() string { return v.desc }

// fakeInstr is one emitted instruction, recorded for assertions.
type fakeInstr struct {
	Op   string
	Text string
}

// fakeBlock is a fake basic block: an ordered instruction list that may
// or may not yet end in a terminator.
type fakeBlock struct {
	name       string
	Instrs     []fakeInstr
	terminated bool
}

// AllocaCount returns how many CreateAlloca instructions this block
// holds, used by tests exercising §8's codegen properties.
func (bb *fakeBlock) AllocaCount() int {
	n := 0
	for _, in := range bb.Instrs {
		if in.Op == "alloca" {
			n++
		}
	}
	return n
}

// fakeFunction is a fake module-level function.
type fakeFunction struct {
	name        string
	returnsVoid bool
	params      []Value
	blocks      []*fakeBlock
}

func (f *fakeFunction) Name() string     { return f.name }
func (f *fakeFunction) Params() []Value  { return f.params }
func (f *fakeFunction) Blocks() []*fakeBlock { return f.blocks }

// EntryBlock returns the function's first basic block, or nil.
func (f *fakeFunction) EntryBlock() *fakeBlock {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

type fakeCtor struct {
	Priority int
	Fn       Function
}

// fakeModule is the in-memory Module double used by the test suite.
type fakeModule struct {
	functions   map[string]*fakeFunction
	order       []string // declaration order, for deterministic String()
	globals     map[string]Value
	globalOrder []string
	ctors       []fakeCtor
	mainWrapper *fakeFunction
}

// newFakeModule creates an empty fake module.
func newFakeModule() *fakeModule {
	return &fakeModule{
		functions: make(map[string]*fakeFunction),
		globals:   make(map[string]Value),
	}
}

func (m *fakeModule) DeclareFunction(name string, paramCount int) Function {
	if fn, ok := m.functions[name]; ok {
		return fn
	}
	params := make([]Value, paramCount)
	for i := range params {
		params[i] = &fakeValue{kind: "param", desc: fmt.Sprintf("%s.arg%d", name, i)}
	}
	fn := &fakeFunction{name: name, params: params}
	m.functions[name] = fn
	m.order = append(m.order, name)
	return fn
}

// DeclareVoidFunction declares a niladic void(void) function, used for
// the synthesized global_var_init constructor (§4.4, §6).
func (m *fakeModule) DeclareVoidFunction(name string) Function {
	if fn, ok := m.functions[name]; ok {
		return fn
	}
	fn := &fakeFunction{name: name, returnsVoid: true}
	m.functions[name] = fn
	m.order = append(m.order, name)
	return fn
}

func (m *fakeModule) DeclarePrintf() Function {
	if fn, ok := m.functions["printf"]; ok {
		return fn
	}
	fn := &fakeFunction{name: "printf"}
	m.functions["printf"] = fn
	m.order = append(m.order, "printf")
	return fn
}

func (m *fakeModule) GetFunction(name string) (Function, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

func (m *fakeModule) AddGlobal(name string) Value {
	if v, ok := m.globals[name]; ok {
		return v
	}
	v := &fakeValue{kind: "global", desc: name}
	m.globals[name] = v
	m.globalOrder = append(m.globalOrder, name)
	return v
}

func (m *fakeModule) AddBasicBlock(fn Function) BasicBlock {
	f := fn.(*fakeFunction)
	bb := &fakeBlock{name: fmt.Sprintf("%s.bb%d", f.name, len(f.blocks))}
	f.blocks = append(f.blocks, bb)
	return bb
}

func (m *fakeModule) AddGlobalCtor(priority int, fn Function) {
	m.ctors = append(m.ctors, fakeCtor{Priority: priority, Fn: fn})
}

func (m *fakeModule) AddMainWrapper(inner Function) Function {
	wrapper := &fakeFunction{name: "main"}
	bb := &fakeBlock{name: "main.bb0", terminated: true}
	bb.Instrs = append(bb.Instrs, fakeInstr{Op: "call", Text: "call " + inner.Name()})
	bb.Instrs = append(bb.Instrs, fakeInstr{Op: "ret", Text: "ret i32"})
	wrapper.blocks = append(wrapper.blocks, bb)
	m.functions["main"] = wrapper
	m.order = append(m.order, "main")
	m.mainWrapper = wrapper
	return wrapper
}

func (m *fakeModule) String() string {
	var b strings.Builder
	for _, name := range m.globalOrder {
		fmt.Fprintf(&b, "@%s = global double 0.0\n", name)
	}
	for _, name := range m.order {
		fn := m.functions[name]
		fmt.Fprintf(&b, "define double @%s {\n", fn.name)
		for _, bb := range fn.blocks {
			for _, in := range bb.Instrs {
				fmt.Fprintf(&b, "  %s\n", in.Text)
			}
		}
		b.WriteString("}\n")
	}
	for _, c := range m.ctors {
		fmt.Fprintf(&b, "llvm.global_ctors += {%d, @%s}\n", c.Priority, c.Fn.Name())
	}
	return b.String()
}

// Verify enforces the structural rules a fake module can meaningfully
// check without a real verifier: every basic block must end in exactly
// one terminator, and that terminator must agree with its function's
// declared return shape (a void() function may only ever `ret void`,
// never `ret double ...`, and vice versa).
func (m *fakeModule) Verify() error {
	for _, name := range m.order {
		fn := m.functions[name]
		for _, bb := range fn.blocks {
			if !bb.terminated {
				return fmt.Errorf("function %q: basic block %q has no terminator", fn.name, bb.name)
			}
			for i, in := range bb.Instrs {
				isTerm := in.Op == "ret" || in.Op == "retvoid"
				if isTerm != (i == len(bb.Instrs)-1) {
					return fmt.Errorf("function %q: basic block %q must end in exactly one terminator", fn.name, bb.name)
				}
			}
			last := bb.Instrs[len(bb.Instrs)-1]
			isVoidRet := last.Op == "retvoid"
			if fn.returnsVoid && !isVoidRet {
				return fmt.Errorf("function %q: void function terminated by %q, want ret void", fn.name, last.Text)
			}
			if !fn.returnsVoid && isVoidRet {
				return fmt.Errorf("function %q: non-void function terminated by ret void", fn.name)
			}
		}
	}
	return nil
}

// fakeBuilder is the in-memory Builder double.
type fakeBuilder struct {
	cur *fakeBlock
}

func newFakeBuilder() *fakeBuilder { return &fakeBuilder{} }

func (b *fakeBuilder) SetInsertPoint(bb BasicBlock) {
	b.cur = bb.(*fakeBlock)
}

func (b *fakeBuilder) emit(op, text string) {
	b.cur.Instrs = append(b.cur.Instrs, fakeInstr{Op: op, Text: text})
}

func (b *fakeBuilder) CreateAlloca(name string) Value {
	v := &fakeValue{kind: "alloca", desc: "%" + name}
	b.emit("alloca", fmt.Sprintf("%s = alloca double", v.desc))
	return v
}

func (b *fakeBuilder) CreateStore(value, ptr Value) {
	b.emit("store", fmt.Sprintf("store double %s, double* %s", value.(*fakeValue), ptr.(*fakeValue)))
}

func (b *fakeBuilder) CreateLoad(ptr Value, name string) Value {
	v := &fakeValue{kind: "load", desc: "%" + name + ".load"}
	b.emit("load", fmt.Sprintf("%s = load double, double* %s", v.desc, ptr.(*fakeValue)))
	return v
}

func (b *fakeBuilder) CreateFNeg(v Value, name string) Value {
	out := &fakeValue{kind: "neg", desc: "%fneg"}
	b.emit("fneg", fmt.Sprintf("%s = fneg double %s", out.desc, v.(*fakeValue)))
	return out
}

func (b *fakeBuilder) binary(op string, lhs, rhs Value) Value {
	out := &fakeValue{kind: "binary", desc: "%" + op}
	b.emit(op, fmt.Sprintf("%s = %s double %s, %s", out.desc, op, lhs.(*fakeValue), rhs.(*fakeValue)))
	return out
}

func (b *fakeBuilder) CreateFAdd(lhs, rhs Value, name string) Value { return b.binary("fadd", lhs, rhs) }
func (b *fakeBuilder) CreateFSub(lhs, rhs Value, name string) Value { return b.binary("fsub", lhs, rhs) }
func (b *fakeBuilder) CreateFMul(lhs, rhs Value, name string) Value { return b.binary("fmul", lhs, rhs) }
func (b *fakeBuilder) CreateFDiv(lhs, rhs Value, name string) Value { return b.binary("fdiv", lhs, rhs) }
func (b *fakeBuilder) CreateFRem(lhs, rhs Value, name string) Value { return b.binary("frem", lhs, rhs) }

func (b *fakeBuilder) CreateCall(fn Function, args []Value, name string) Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.(*fakeValue).String()
	}
	out := &fakeValue{kind: "call", desc: "%call." + fn.Name()}
	b.emit("call", fmt.Sprintf("%s = call double @%s(%s)", out.desc, fn.Name(), strings.Join(parts, ", ")))
	return out
}

func (b *fakeBuilder) CreateRet(v Value) {
	b.emit("ret", fmt.Sprintf("ret double %s", v.(*fakeValue)))
	b.cur.terminated = true
}

func (b *fakeBuilder) CreateRetVoid() {
	b.emit("retvoid", "ret void")
	b.cur.terminated = true
}

func (b *fakeBuilder) InsertBlockHasTerminator() bool {
	return b.cur.terminated
}

func (b *fakeBuilder) ConstFloat(v float64) Value {
	return &fakeValue{kind: "const", desc: strconv.FormatFloat(v, 'g', -1, 64)}
}
