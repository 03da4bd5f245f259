// Package astnode implements the AST node model of spec.md §3.4: a closed
// sum of syntax-tree variants, each carrying source location, a weak parent
// back-pointer, and an optional cached production id.
//
// tunascript/syntax/ast.go is the teacher's AST, and it is exactly the
// "ubiquitous type-erased object hierarchy with runtime casts" the DESIGN
// NOTE in spec.md §9 calls out for replacement: its ASTNode interface
// exposes seven As*Node() accessors that panic on a type mismatch
// (AsFuncNode, AsFlagNode, ...). Node here follows the same tagged-struct
// shape already used for grammar.Term: one Kind field selects which of the
// other fields are meaningful, so a caller switches on Kind instead of
// type-asserting and risking a panic.
package astnode

// Kind discriminates the AST node variants of spec.md §3.4.
type Kind int

const (
	Identifier Kind = iota
	IntegerLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
	List
	Map
	ExpressionList
	InfixOperator
	PrefixOperator
	PostfixOperator
	OutfixOperator
	ParamPass
	LinkOperator
	Bridge
	Alias
	Definition
	Module
	Scope
	Function
	FunctionType
	ArgPack
	Block
	IfStatement
	WhileStatement
	ForStatement
	BreakStatement
	ContinueStatement
	ReturnStatement
	UseStatement
	Macro
	Template
	IntegerType
	FloatType
	PointerType
	ReferenceType
	ArrayType
	UserType
	VoidType
	CastOp
	PointerOp
	ContentOp
	SizeOp
	InitOp
	TerminateOp
	NextArgOp
	NoDerefOp
	UseInOp
	CalleePointer
	PreprocessStatement
	EvalStatement
)

var kindNames = [...]string{
	"Identifier", "IntegerLiteral", "FloatLiteral", "StringLiteral", "CharLiteral",
	"List", "Map", "ExpressionList", "InfixOperator", "PrefixOperator",
	"PostfixOperator", "OutfixOperator", "ParamPass", "LinkOperator", "Bridge",
	"Alias", "Definition", "Module", "Scope", "Function", "FunctionType",
	"ArgPack", "Block", "IfStatement", "WhileStatement", "ForStatement",
	"BreakStatement", "ContinueStatement", "ReturnStatement", "UseStatement",
	"Macro", "Template", "IntegerType", "FloatType", "PointerType",
	"ReferenceType", "ArrayType", "UserType", "VoidType", "CastOp", "PointerOp",
	"ContentOp", "SizeOp", "InitOp", "TerminateOp", "NextArgOp", "NoDerefOp",
	"UseInOp", "CalleePointer", "PreprocessStatement", "EvalStatement",
}

// String renders the Kind's declared name, for diagnostics and tree dumps.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// BracketKind distinguishes the two bracket shapes a ParamPass may use:
// round parens for calls, square brackets for subscripting/instantiation.
type BracketKind int

const (
	Round BracketKind = iota
	Square
)

// Location is the source span a node was parsed from.
type Location struct {
	File     string
	Line     int
	Col      int
	EndLine  int
	EndCol   int
}

// Node is one AST element. Only the fields relevant to Kind are meaningful;
// this is a closed sum expressed as a tagged struct rather than an interface
// hierarchy, per the DESIGN NOTE on replacing type-erased object graphs
// with tagged unions (see grammar.Term for the same pattern).
//
// Parent is a weak, non-owning back-pointer: children are exclusively owned
// by their parent (Clone walks down through Children/Operand/etc.), but
// Clone never follows Parent, and nothing frees through it.
type Node struct {
	Kind Kind
	Loc  Location

	Parent *Node
	ProdID string // optional cached production id; "" means uncached

	// Identifier, Bridge.Name, Alias.Name, Definition.Name, Module.Name,
	// Macro.Name, ArgPack.Name
	Name string

	// IntegerLiteral, FloatLiteral, StringLiteral, CharLiteral: the literal
	// text as written in source (codegen parses it per Width/Signed).
	Text string

	// IntegerLiteral.width, FloatLiteral.width, IntegerType.bits,
	// FloatType.bits
	Width int
	Bits  int

	// IntegerLiteral.signed
	Signed bool

	// InfixOperator.op, PrefixOperator.op, PostfixOperator.op: the operator
	// lexeme ("+", "*", "not", ...).
	Op string

	// OutfixOperator.openBracket / closeBracket
	OpenBracket  string
	CloseBracket string

	// List, Map, ExpressionList, Module.body, Scope.body, Block.body,
	// UserType.body, FunctionType.args, ParamPass.args, Macro.params,
	// Template.params: an ordered, owned child list. Map stores key/value
	// pairs as consecutive (key, value) children.
	Children []*Node

	// InfixOperator.lhs/rhs, LinkOperator.lhs/rhs
	Lhs *Node
	Rhs *Node

	// PrefixOperator.operand, PostfixOperator.operand,
	// CastOp/PointerOp/ContentOp/SizeOp/InitOp/TerminateOp/NextArgOp/
	// NoDerefOp.operand, UseStatement.target, ReturnStatement.value,
	// EvalStatement.expr
	Operand *Node

	// ParamPass.callee, CalleePointer.target
	Callee *Node

	// ParamPass.bracketKind
	BracketKind BracketKind

	// Bridge.target, Alias.target, Definition.target, CastOp.targetType
	Target *Node

	// Definition.modifiers, FunctionType.modifiers
	Modifiers []string

	// Function.type, FunctionType.retType
	FuncType *Node
	RetType  *Node

	// Function.body (optional), Macro.body, Template.body,
	// PreprocessStatement.body, IfStatement.then/els, WhileStatement.body,
	// ForStatement.body, OutfixOperator.body
	Body *Node
	Else *Node

	// ArgPack.minCount/maxCount, ArgPack.typeRef
	MinCount int
	MaxCount int
	TypeRef  *Node

	// IfStatement.cond, WhileStatement.cond
	Cond *Node

	// ForStatement.init/cond/post
	Init *Node
	Post *Node

	// ArrayType.content/size, PointerType/ReferenceType.content
	Content *Node
	Size    *Node

	// UseInOp: use Scope in Body
	UseScope *Node
}

// Clone returns a deep copy of n: owned children are copied recursively and
// re-parented to the clone, per spec.md §3.4's template-instantiation
// requirement. The clone's own Parent is nil. Cross-tree (weak) fields —
// Target, which the AST processor treats as a scope/type/template reference
// rather than an owned child — are left pointing at the original nodes; the
// AST processor re-resolves them via the Seeker after substitution.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Parent = nil

	c.Children = cloneList(n.Children, &c)
	c.Lhs = cloneChild(n.Lhs, &c)
	c.Rhs = cloneChild(n.Rhs, &c)
	c.Operand = cloneChild(n.Operand, &c)
	c.Callee = cloneChild(n.Callee, &c)
	c.FuncType = cloneChild(n.FuncType, &c)
	c.RetType = cloneChild(n.RetType, &c)
	c.Body = cloneChild(n.Body, &c)
	c.Else = cloneChild(n.Else, &c)
	c.TypeRef = cloneChild(n.TypeRef, &c)
	c.Cond = cloneChild(n.Cond, &c)
	c.Init = cloneChild(n.Init, &c)
	c.Post = cloneChild(n.Post, &c)
	c.Content = cloneChild(n.Content, &c)
	c.Size = cloneChild(n.Size, &c)
	c.UseScope = cloneChild(n.UseScope, &c)

	// Target (Bridge/Alias/Definition's target) and CastOp's targetType are
	// cross-tree references into a scope, not owned syntax; left unresolved
	// per the deep-clone contract above.
	c.Target = n.Target

	if len(n.Modifiers) > 0 {
		c.Modifiers = append([]string(nil), n.Modifiers...)
	}

	return &c
}

func cloneChild(n, parent *Node) *Node {
	if n == nil {
		return nil
	}
	c := n.Clone()
	c.Parent = parent
	return c
}

func cloneList(nodes []*Node, parent *Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneChild(n, parent)
	}
	return out
}

// ChildPointers returns the address of every single-child pointer field on
// n (whether or not it is currently nil), letting a caller both read and
// rewrite a child in place. Used by the AST processor's macro/template
// substitution and pre-gen lowering passes, which need to replace a
// matched child wherever it lives without a per-Kind switch over field
// names. Node.Children (the owned list used by List/Map/Module/Scope/
// Block/... kinds) is walked separately, since it is a slice rather than a
// single slot.
func (n *Node) ChildPointers() []**Node {
	return []**Node{
		&n.Lhs, &n.Rhs, &n.Operand, &n.Callee, &n.Target,
		&n.FuncType, &n.RetType, &n.Body, &n.Else, &n.TypeRef,
		&n.Cond, &n.Init, &n.Post, &n.Content, &n.Size, &n.UseScope,
	}
}

// New builds a bare node of the given kind at loc, with no fields set
// beyond those two. Constructors below fill in the kind-specific fields.
func New(kind Kind, loc Location) *Node {
	return &Node{Kind: kind, Loc: loc}
}

// NewIdentifier builds an Identifier node.
func NewIdentifier(loc Location, name string) *Node {
	return &Node{Kind: Identifier, Loc: loc, Name: name}
}

// NewIntegerLiteral builds an IntegerLiteral node.
func NewIntegerLiteral(loc Location, text string, width int, signed bool) *Node {
	return &Node{Kind: IntegerLiteral, Loc: loc, Text: text, Width: width, Signed: signed}
}

// NewFloatLiteral builds a FloatLiteral node.
func NewFloatLiteral(loc Location, text string, width int) *Node {
	return &Node{Kind: FloatLiteral, Loc: loc, Text: text, Width: width}
}

// NewStringLiteral builds a StringLiteral node.
func NewStringLiteral(loc Location, text string) *Node {
	return &Node{Kind: StringLiteral, Loc: loc, Text: text}
}

// NewCharLiteral builds a CharLiteral node.
func NewCharLiteral(loc Location, text string) *Node {
	return &Node{Kind: CharLiteral, Loc: loc, Text: text}
}

func adopt(parent *Node, children ...*Node) {
	for _, c := range children {
		if c != nil {
			c.Parent = parent
		}
	}
}

// NewList builds a List node owning items.
func NewList(loc Location, items []*Node) *Node {
	n := &Node{Kind: List, Loc: loc, Children: items}
	adopt(n, items...)
	return n
}

// NewMap builds a Map node whose Children alternate (key, value) pairs.
func NewMap(loc Location, pairs []*Node) *Node {
	n := &Node{Kind: Map, Loc: loc, Children: pairs}
	adopt(n, pairs...)
	return n
}

// NewExpressionList builds an ExpressionList node owning items.
func NewExpressionList(loc Location, items []*Node) *Node {
	n := &Node{Kind: ExpressionList, Loc: loc, Children: items}
	adopt(n, items...)
	return n
}

// NewInfixOperator builds an InfixOperator node.
func NewInfixOperator(loc Location, op string, lhs, rhs *Node) *Node {
	n := &Node{Kind: InfixOperator, Loc: loc, Op: op, Lhs: lhs, Rhs: rhs}
	adopt(n, lhs, rhs)
	return n
}

// NewPrefixOperator builds a PrefixOperator node.
func NewPrefixOperator(loc Location, op string, operand *Node) *Node {
	n := &Node{Kind: PrefixOperator, Loc: loc, Op: op, Operand: operand}
	adopt(n, operand)
	return n
}

// NewPostfixOperator builds a PostfixOperator node.
func NewPostfixOperator(loc Location, op string, operand *Node) *Node {
	n := &Node{Kind: PostfixOperator, Loc: loc, Op: op, Operand: operand}
	adopt(n, operand)
	return n
}

// NewOutfixOperator builds an OutfixOperator node, e.g. `(expr)` or `[expr]`
// bracket pairs that wrap a single body with no operator lexeme.
func NewOutfixOperator(loc Location, openBracket, closeBracket string, body *Node) *Node {
	n := &Node{Kind: OutfixOperator, Loc: loc, OpenBracket: openBracket, CloseBracket: closeBracket, Body: body}
	adopt(n, body)
	return n
}

// NewParamPass builds a ParamPass node (a call or subscript/instantiation).
func NewParamPass(loc Location, callee *Node, args []*Node, bracket BracketKind) *Node {
	n := &Node{Kind: ParamPass, Loc: loc, Callee: callee, Children: args, BracketKind: bracket}
	adopt(n, callee)
	adopt(n, args...)
	return n
}

// NewLinkOperator builds a LinkOperator (member access, `.`) node.
func NewLinkOperator(loc Location, lhs, rhs *Node) *Node {
	n := &Node{Kind: LinkOperator, Loc: loc, Lhs: lhs, Rhs: rhs}
	adopt(n, lhs, rhs)
	return n
}

// NewBridge builds a Bridge node (cross-language/external symbol binding).
func NewBridge(loc Location, name string, target *Node) *Node {
	return &Node{Kind: Bridge, Loc: loc, Name: name, Target: target}
}

// NewAlias builds an Alias node.
func NewAlias(loc Location, name string, target *Node) *Node {
	return &Node{Kind: Alias, Loc: loc, Name: name, Target: target}
}

// NewDefinition builds a Definition node.
func NewDefinition(loc Location, name string, target *Node, modifiers ...string) *Node {
	n := &Node{Kind: Definition, Loc: loc, Name: name, Target: target, Modifiers: modifiers}
	adopt(n, target)
	return n
}

// NewModule builds a Module node owning its body statements.
func NewModule(loc Location, name string, body []*Node) *Node {
	n := &Node{Kind: Module, Loc: loc, Name: name, Children: body}
	adopt(n, body...)
	return n
}

// NewScope builds a Scope node owning its body statements.
func NewScope(loc Location, body []*Node) *Node {
	n := &Node{Kind: Scope, Loc: loc, Children: body}
	adopt(n, body...)
	return n
}

// NewFunction builds a Function node; body is nil for a declaration-only
// (forward, bridged, or abstract) function.
func NewFunction(loc Location, funcType, body *Node) *Node {
	n := &Node{Kind: Function, Loc: loc, FuncType: funcType, Body: body}
	adopt(n, funcType, body)
	return n
}

// NewFunctionType builds a FunctionType node.
func NewFunctionType(loc Location, args []*Node, retType *Node, modifiers ...string) *Node {
	n := &Node{Kind: FunctionType, Loc: loc, Children: args, RetType: retType, Modifiers: modifiers}
	adopt(n, args...)
	adopt(n, retType)
	return n
}

// NewArgPack builds an ArgPack node (a variadic argument capture).
func NewArgPack(loc Location, name string, minCount, maxCount int, typeRef *Node) *Node {
	n := &Node{Kind: ArgPack, Loc: loc, Name: name, MinCount: minCount, MaxCount: maxCount, TypeRef: typeRef}
	adopt(n, typeRef)
	return n
}

// NewBlock builds a Block node owning its statements.
func NewBlock(loc Location, body []*Node) *Node {
	n := &Node{Kind: Block, Loc: loc, Children: body}
	adopt(n, body...)
	return n
}

// NewIfStatement builds an IfStatement node; els is nil when there is no
// else branch.
func NewIfStatement(loc Location, cond, then, els *Node) *Node {
	n := &Node{Kind: IfStatement, Loc: loc, Cond: cond, Body: then, Else: els}
	adopt(n, cond, then, els)
	return n
}

// NewWhileStatement builds a WhileStatement node.
func NewWhileStatement(loc Location, cond, body *Node) *Node {
	n := &Node{Kind: WhileStatement, Loc: loc, Cond: cond, Body: body}
	adopt(n, cond, body)
	return n
}

// NewForStatement builds a ForStatement node; init/cond/post may each be
// nil for the corresponding omitted clause.
func NewForStatement(loc Location, init, cond, post, body *Node) *Node {
	n := &Node{Kind: ForStatement, Loc: loc, Init: init, Cond: cond, Post: post, Body: body}
	adopt(n, init, cond, post, body)
	return n
}

// NewBreakStatement builds a BreakStatement node.
func NewBreakStatement(loc Location) *Node {
	return &Node{Kind: BreakStatement, Loc: loc}
}

// NewContinueStatement builds a ContinueStatement node.
func NewContinueStatement(loc Location) *Node {
	return &Node{Kind: ContinueStatement, Loc: loc}
}

// NewReturnStatement builds a ReturnStatement node; value is nil for a bare
// `return`.
func NewReturnStatement(loc Location, value *Node) *Node {
	n := &Node{Kind: ReturnStatement, Loc: loc, Operand: value}
	adopt(n, value)
	return n
}

// NewUseStatement builds a UseStatement node.
func NewUseStatement(loc Location, target *Node) *Node {
	n := &Node{Kind: UseStatement, Loc: loc, Operand: target}
	adopt(n, target)
	return n
}

// NewMacro builds a Macro node.
func NewMacro(loc Location, name string, params []*Node, body *Node) *Node {
	n := &Node{Kind: Macro, Loc: loc, Name: name, Children: params, Body: body}
	adopt(n, params...)
	adopt(n, body)
	return n
}

// NewTemplate builds a Template node.
func NewTemplate(loc Location, params []*Node, body *Node) *Node {
	n := &Node{Kind: Template, Loc: loc, Children: params, Body: body}
	adopt(n, params...)
	adopt(n, body)
	return n
}

// NewIntegerType builds an IntegerType node.
func NewIntegerType(loc Location, bits int) *Node {
	return &Node{Kind: IntegerType, Loc: loc, Bits: bits}
}

// NewFloatType builds a FloatType node.
func NewFloatType(loc Location, bits int) *Node {
	return &Node{Kind: FloatType, Loc: loc, Bits: bits}
}

// NewPointerType builds a PointerType node.
func NewPointerType(loc Location, content *Node) *Node {
	n := &Node{Kind: PointerType, Loc: loc, Content: content}
	adopt(n, content)
	return n
}

// NewReferenceType builds a ReferenceType node.
func NewReferenceType(loc Location, content *Node) *Node {
	n := &Node{Kind: ReferenceType, Loc: loc, Content: content}
	adopt(n, content)
	return n
}

// NewArrayType builds an ArrayType node; size is nil for an unsized array.
func NewArrayType(loc Location, content, size *Node) *Node {
	n := &Node{Kind: ArrayType, Loc: loc, Content: content, Size: size}
	adopt(n, content, size)
	return n
}

// NewUserType builds a UserType node (a struct/record-like aggregate).
func NewUserType(loc Location, body []*Node) *Node {
	n := &Node{Kind: UserType, Loc: loc, Children: body}
	adopt(n, body...)
	return n
}

// NewVoidType builds a VoidType node.
func NewVoidType(loc Location) *Node {
	return &Node{Kind: VoidType, Loc: loc}
}

// NewCastOp builds a CastOp node.
func NewCastOp(loc Location, targetType, operand *Node) *Node {
	n := &Node{Kind: CastOp, Loc: loc, Target: targetType, Operand: operand}
	adopt(n, operand)
	return n
}

func newUnaryOp(kind Kind, loc Location, operand *Node) *Node {
	n := &Node{Kind: kind, Loc: loc, Operand: operand}
	adopt(n, operand)
	return n
}

// NewPointerOp builds a PointerOp node (`~ptr` address-of-style operator).
func NewPointerOp(loc Location, operand *Node) *Node { return newUnaryOp(PointerOp, loc, operand) }

// NewContentOp builds a ContentOp node (dereference).
func NewContentOp(loc Location, operand *Node) *Node { return newUnaryOp(ContentOp, loc, operand) }

// NewSizeOp builds a SizeOp node.
func NewSizeOp(loc Location, operand *Node) *Node { return newUnaryOp(SizeOp, loc, operand) }

// NewInitOp builds an InitOp node (explicit constructor invocation).
func NewInitOp(loc Location, operand *Node) *Node { return newUnaryOp(InitOp, loc, operand) }

// NewTerminateOp builds a TerminateOp node (explicit destructor invocation).
func NewTerminateOp(loc Location, operand *Node) *Node { return newUnaryOp(TerminateOp, loc, operand) }

// NewNextArgOp builds a NextArgOp node (advances an ArgPack cursor).
func NewNextArgOp(loc Location, operand *Node) *Node { return newUnaryOp(NextArgOp, loc, operand) }

// NewNoDerefOp builds a NoDerefOp node (suppresses implicit dereference).
func NewNoDerefOp(loc Location, operand *Node) *Node { return newUnaryOp(NoDerefOp, loc, operand) }

// NewUseInOp builds a UseInOp node: `use scope in body`.
func NewUseInOp(loc Location, scope, body *Node) *Node {
	n := &Node{Kind: UseInOp, Loc: loc, UseScope: scope, Body: body}
	adopt(n, scope, body)
	return n
}

// NewCalleePointer builds a CalleePointer node (a first-class reference to
// a callable, used where a function is passed rather than invoked).
func NewCalleePointer(loc Location, target *Node) *Node {
	n := &Node{Kind: CalleePointer, Loc: loc, Callee: target}
	adopt(n, target)
	return n
}

// NewPreprocessStatement builds a PreprocessStatement node.
func NewPreprocessStatement(loc Location, body *Node) *Node {
	n := &Node{Kind: PreprocessStatement, Loc: loc, Body: body}
	adopt(n, body)
	return n
}

// NewEvalStatement builds an EvalStatement node.
func NewEvalStatement(loc Location, expr *Node) *Node {
	n := &Node{Kind: EvalStatement, Loc: loc, Operand: expr}
	adopt(n, expr)
	return n
}
