package codegen

import (
	"tinygo.org/x/go-llvm"
)

// llvmModule wraps a real llvm.Module, implementing Module against the
// tinygo.org/x/go-llvm bindings the way github.com/hhramberg/go-vslc's
// GenLLVM drives the same API: one llvm.Context/llvm.Module/llvm.Builder
// triple per compilation, llvm.AddFunction for declarations, and
// llvm.VerifyModule for the final check.
type llvmModule struct {
	ctx     llvm.Context
	mod     llvm.Module
	dblType llvm.Type
	strType llvm.Type // i8*, printf's format-string parameter
}

// llvmFunction wraps an llvm.Value known to hold a function.
type llvmFunction struct {
	name   string
	val    llvm.Value
	params []Value
}

func (f *llvmFunction) Name() string    { return f.name }
func (f *llvmFunction) Params() []Value { return f.params }

// NewLLVMModule creates a production Module/Builder pair backed by a
// fresh LLVM context, named name. The returned Builder is bound to the
// same context and must be used only with Values produced by the
// returned Module.
func NewLLVMModule(name string) (Module, Builder) {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(name)
	m := &llvmModule{
		ctx:     ctx,
		mod:     mod,
		dblType: ctx.DoubleType(),
		strType: llvm.PointerType(ctx.Int8Type(), 0),
	}
	b := &llvmBuilder{ctx: ctx, builder: ctx.NewBuilder(), dblType: m.dblType}
	return m, b
}

func (m *llvmModule) DeclareFunction(name string, paramCount int) Function {
	if fn, ok := m.lookupFunction(name); ok {
		return fn
	}
	params := make([]llvm.Type, paramCount)
	for i := range params {
		params[i] = m.dblType
	}
	ftyp := llvm.FunctionType(m.dblType, params, false)
	val := llvm.AddFunction(m.mod, name, ftyp)

	out := &llvmFunction{name: name, val: val, params: make([]Value, paramCount)}
	for i := range out.params {
		out.params[i] = val.Param(i)
	}
	return out
}

func (m *llvmModule) DeclareVoidFunction(name string) Function {
	if fn, ok := m.lookupFunction(name); ok {
		return fn
	}
	ftyp := llvm.FunctionType(m.ctx.VoidType(), nil, false)
	val := llvm.AddFunction(m.mod, name, ftyp)
	val.SetLinkage(llvm.InternalLinkage)
	return &llvmFunction{name: name, val: val}
}

func (m *llvmModule) DeclarePrintf() Function {
	if fn, ok := m.lookupFunction("printf"); ok {
		return fn
	}
	ftyp := llvm.FunctionType(m.ctx.Int32Type(), []llvm.Type{m.strType}, true)
	val := llvm.AddFunction(m.mod, "printf", ftyp)
	return &llvmFunction{name: "printf", val: val}
}

func (m *llvmModule) GetFunction(name string) (Function, bool) {
	return m.lookupFunction(name)
}

func (m *llvmModule) lookupFunction(name string) (Function, bool) {
	val := m.mod.NamedFunction(name)
	if val.IsNil() {
		return nil, false
	}
	if name == "printf" {
		return &llvmFunction{name: name, val: val}, true
	}
	params := make([]Value, val.ParamsCount())
	for i := range params {
		params[i] = val.Param(i)
	}
	return &llvmFunction{name: name, val: val, params: params}, true
}

func (m *llvmModule) AddGlobal(name string) Value {
	if g := m.mod.NamedGlobal(name); !g.IsNil() {
		return g
	}
	g := llvm.AddGlobal(m.mod, m.dblType, name)
	g.SetInitializer(llvm.ConstFloat(m.dblType, 0))
	g.SetLinkage(llvm.ExternalLinkage)
	return g
}

func (m *llvmModule) AddBasicBlock(fn Function) BasicBlock {
	f := fn.(*llvmFunction)
	return m.ctx.AddBasicBlock(f.val, "")
}

// AddGlobalCtor sets llvm.global_ctors, the appending-linkage array the C
// runtime loader scans before main (§4.4 Module bootstrap, step 2), to the
// single entry {priority, fn, null}. An array left by an earlier call is
// erased and replaced, not extended.
func (m *llvmModule) AddGlobalCtor(priority int, fn Function) {
	f := fn.(*llvmFunction)

	voidFnPtrTyp := llvm.PointerType(llvm.FunctionType(m.ctx.VoidType(), nil, false), 0)
	i8PtrTyp := llvm.PointerType(m.ctx.Int8Type(), 0)
	entryTyp := m.ctx.StructType([]llvm.Type{
		m.ctx.Int32Type(), voidFnPtrTyp, i8PtrTyp,
	}, false)

	entry := llvm.ConstNamedStruct(entryTyp, []llvm.Value{
		llvm.ConstInt(m.ctx.Int32Type(), uint64(priority), false),
		llvm.ConstBitCast(f.val, voidFnPtrTyp),
		llvm.ConstNull(i8PtrTyp),
	})

	arrTyp := llvm.ArrayType(entryTyp, 1)
	existing := m.mod.NamedGlobal("llvm.global_ctors")
	if !existing.IsNil() {
		existing.EraseFromParentAsGlobal()
	}

	ctors := llvm.AddGlobal(m.mod, arrTyp, "llvm.global_ctors")
	ctors.SetLinkage(llvm.AppendingLinkage)
	ctors.SetInitializer(llvm.ConstArray(entryTyp, []llvm.Value{entry}))
}

// AddMainWrapper emits the C-callable `i32 main()` that the platform
// entry point requires, delegating to the renamed user function and
// truncating its double result to i32 (§4.4 Module bootstrap, step 3).
func (m *llvmModule) AddMainWrapper(inner Function) Function {
	in := inner.(*llvmFunction)

	ftyp := llvm.FunctionType(m.ctx.Int32Type(), nil, false)
	val := llvm.AddFunction(m.mod, "main", ftyp)
	bb := m.ctx.AddBasicBlock(val, "entry")

	b := m.ctx.NewBuilder()
	defer b.Dispose()
	b.SetInsertPointAtEnd(bb)

	result := b.CreateCall(in.val.GlobalValueType(), in.val, nil, "")
	asInt := b.CreateFPToSI(result, m.ctx.Int32Type(), "")
	b.CreateRet(asInt)

	return &llvmFunction{name: "main", val: val}
}

func (m *llvmModule) String() string {
	return m.mod.String()
}

func (m *llvmModule) Verify() error {
	return llvm.VerifyModule(m.mod, llvm.ReturnStatusAction)
}

// llvmBuilder wraps a real llvm.Builder.
type llvmBuilder struct {
	ctx     llvm.Context
	builder llvm.Builder
	dblType llvm.Type
}

func (b *llvmBuilder) SetInsertPoint(bb BasicBlock) {
	b.builder.SetInsertPointAtEnd(bb.(llvm.BasicBlock))
}

func (b *llvmBuilder) CreateAlloca(name string) Value {
	return b.builder.CreateAlloca(b.dblType, name)
}

func (b *llvmBuilder) CreateStore(value, ptr Value) {
	b.builder.CreateStore(value.(llvm.Value), ptr.(llvm.Value))
}

func (b *llvmBuilder) CreateLoad(ptr Value, name string) Value {
	return b.builder.CreateLoad(b.dblType, ptr.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFNeg(v Value, name string) Value {
	return b.builder.CreateFNeg(v.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFAdd(lhs, rhs Value, name string) Value {
	return b.builder.CreateFAdd(lhs.(llvm.Value), rhs.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFSub(lhs, rhs Value, name string) Value {
	return b.builder.CreateFSub(lhs.(llvm.Value), rhs.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFMul(lhs, rhs Value, name string) Value {
	return b.builder.CreateFMul(lhs.(llvm.Value), rhs.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFDiv(lhs, rhs Value, name string) Value {
	return b.builder.CreateFDiv(lhs.(llvm.Value), rhs.(llvm.Value), name)
}

func (b *llvmBuilder) CreateFRem(lhs, rhs Value, name string) Value {
	return b.builder.CreateFRem(lhs.(llvm.Value), rhs.(llvm.Value), name)
}

func (b *llvmBuilder) CreateCall(fn Function, args []Value, name string) Value {
	f := fn.(*llvmFunction)
	ir := make([]llvm.Value, len(args))
	for i, a := range args {
		ir[i] = a.(llvm.Value)
	}
	return b.builder.CreateCall(f.val.GlobalValueType(), f.val, ir, name)
}

func (b *llvmBuilder) CreateRet(v Value) {
	b.builder.CreateRet(v.(llvm.Value))
}

func (b *llvmBuilder) CreateRetVoid() {
	b.builder.CreateRetVoid()
}

func (b *llvmBuilder) InsertBlockHasTerminator() bool {
	return !b.builder.GetInsertBlock().LastInstruction().IsNil() &&
		!b.builder.GetInsertBlock().LastInstruction().IsATerminatorInst().IsNil()
}

func (b *llvmBuilder) ConstFloat(v float64) Value {
	return llvm.ConstFloat(b.dblType, v)
}
