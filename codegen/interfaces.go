// Package codegen lowers an ast.Program to an LLVM-IR module.
//
// The lowering itself never touches an LLVM binding directly: it is
// written against the narrow Builder/Module/Function façade below, kept
// small and mockable the way github.com/sokoide/llvm5's
// interfaces.LLVMBuilder/LLVMModule/LLVMValue split keeps its semantic
// analyzer decoupled from a concrete backend. Production code runs
// against llvmAdapter (llvm_adapter.go), a thin wrapper over the real
// tinygo.org/x/go-llvm bindings; tests run against fakeModule
// (fake_test.go), an in-memory double that needs no system LLVM
// install.
package codegen

// Value is an opaque handle to a value produced by the IR builder: an
// alloca pointer, a loaded scalar, a constant, a call result, or an
// incoming function parameter.
type Value interface{}

// BasicBlock is an opaque handle to a basic block inside a function.
type BasicBlock interface{}

// Function is an opaque handle to a module-level function: a
// user-defined double(double, ...) function, or one of the two runtime
// externs declared in §4.4's Module bootstrap.
type Function interface {
	// Name returns the function's declared name (post main-rename).
	Name() string

	// Params returns one Value per formal double parameter, in the
	// order function lowering should store them into fresh stack
	// slots. It is nil for printf, whose only fixed parameter is the
	// format string rather than a double.
	Params() []Value
}

// Module is the module-level surface of the IR-builder façade that the
// code generator consumes (§1, §6). Any implementation providing these
// primitives may substitute for the real LLVM bindings, per §1's note
// that "any implementation may substitute an equivalent IR abstraction".
type Module interface {
	// DeclareFunction declares (or returns the existing declaration
	// of) a function named name taking paramCount double parameters
	// and returning a double.
	DeclareFunction(name string, paramCount int) Function

	// DeclareVoidFunction declares (or returns the existing declaration
	// of) a niladic void(void) function with internal linkage, the
	// shape §4.4/§6 require for the synthesized global_var_init
	// constructor.
	DeclareVoidFunction(name string) Function

	// DeclarePrintf declares the variadic runtime helper
	// printf(i8*, ...) -> i32, if not already present.
	DeclarePrintf() Function

	// GetFunction looks up a previously declared function by its
	// exact module-level name.
	GetFunction(name string) (Function, bool)

	// AddGlobal creates a module-level global double variable, named
	// exactly name, zero-initialized, with external linkage. Calling
	// it twice with the same name returns the same Value.
	AddGlobal(name string) Value

	// AddBasicBlock creates a new basic block inside fn and returns
	// it.
	AddBasicBlock(fn Function) BasicBlock

	// AddGlobalCtor registers fn to run before user main by adding it
	// to the llvm.global_ctors appending-linkage array, at the given
	// priority, per §4.4's Module bootstrap step 2.
	AddGlobalCtor(priority int, fn Function)

	// AddMainWrapper emits the i32 main() wrapper that calls inner
	// and converts its double result to i32, per §4.4's renaming
	// rule for a user function named "main".
	AddMainWrapper(inner Function) Function

	// String renders the module as textual IR.
	String() string

	// Verify checks that the module is well formed. A non-nil error
	// means no partial module should be committed (§4.4, §7).
	Verify() error
}

// Builder positions instructions into a basic block (§4.4).
type Builder interface {
	// SetInsertPoint moves subsequent Create* calls to the end of b.
	SetInsertPoint(b BasicBlock)

	CreateAlloca(name string) Value
	CreateStore(value, ptr Value)
	CreateLoad(ptr Value, name string) Value

	CreateFNeg(v Value, name string) Value
	CreateFAdd(lhs, rhs Value, name string) Value
	CreateFSub(lhs, rhs Value, name string) Value
	CreateFMul(lhs, rhs Value, name string) Value
	CreateFDiv(lhs, rhs Value, name string) Value
	CreateFRem(lhs, rhs Value, name string) Value

	CreateCall(fn Function, args []Value, name string) Value

	CreateRet(v Value)
	CreateRetVoid()

	// InsertBlockHasTerminator reports whether the current insertion
	// block already ends in a terminator (ret/br), so the generator
	// knows whether it must append the implicit `ret 0.0` of §4.4.
	InsertBlockHasTerminator() bool

	// ConstFloat builds a double-precision floating point constant.
	ConstFloat(v float64) Value
}
