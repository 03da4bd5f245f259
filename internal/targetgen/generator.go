// Package targetgen defines the generator contract internal/codegen
// compiles against (spec.md §4.8: type construction, module & function,
// basic blocks, instructions, constants, linkage) and hosts concrete
// backends that implement it. There is no teacher file this is grounded
// on — the retrieval pack ships no compiler backend — so the contract
// shape here is built straight from spec.md §4.8's own enumeration.
//
// Generator embeds codegen.Target (the instruction/basic-block/constant
// surface codegen drives directly) and adds the module/function/linkage
// concerns that sit one level above a single function body.
package targetgen

import "github.com/alusus-go/corelang/internal/codegen"

// Linkage controls whether a generated function or global is visible
// outside its own module, or is itself a reference to an externally
// defined (bridged) symbol.
type Linkage int

const (
	LinkagePrivate Linkage = iota
	LinkageExported
	LinkageExternal
)

// Generator is the full generator contract. A session picks exactly one
// implementation (e.g. internal/targetgen/treewalk) per run.
type Generator interface {
	codegen.Target

	// BeginModule/EndModule bracket the functions and globals belonging to
	// one compilation module.
	BeginModule(name string)
	EndModule()

	// BeginFunction starts a new function, returning the callable value
	// FunctionRef would otherwise have to fabricate a stub for, and makes
	// it the target of subsequent NewBlock/Alloca/instruction calls.
	// EndFunction closes it.
	BeginFunction(name string, paramTypes []codegen.TargetType, retType codegen.TargetType) codegen.TargetValue
	EndFunction()

	// SetLinkage assigns fn's visibility; fn must be a value BeginFunction
	// (or FunctionRef, for an external declaration) returned.
	SetLinkage(fn codegen.TargetValue, linkage Linkage)
}
