package ast

// Visitor is the interface for visiting AST nodes.
// Return true to continue visiting children, false to stop.
type Visitor interface {
	VisitProgram(node *Program) bool
	VisitIdentifier(node *Identifier) bool
	VisitNumberLiteral(node *NumberLiteral) bool
	VisitStringLiteral(node *StringLiteral) bool
	VisitBooleanLiteral(node *BooleanLiteral) bool
	VisitNullLiteral(node *NullLiteral) bool
	VisitListLiteral(node *ListLiteral) bool
	VisitFStringLiteral(node *FStringLiteral) bool
	VisitUnaryOp(node *UnaryOp) bool
	VisitBinaryOp(node *BinaryOp) bool
	VisitCall(node *Call) bool
	VisitSubscript(node *Subscript) bool
	VisitAttribute(node *Attribute) bool
	VisitDynamicName(node *DynamicName) bool
	VisitDeclaration(node *Declaration) bool
	VisitAssignment(node *Assignment) bool
	VisitDeletion(node *Deletion) bool
	VisitBlock(node *Block) bool
	VisitExpressionStatement(node *ExpressionStatement) bool
	VisitIf(node *If) bool
	VisitWhile(node *While) bool
	VisitFor(node *For) bool
	VisitBreak(node *Break) bool
	VisitContinue(node *Continue) bool
	VisitSwitch(node *Switch) bool
	VisitTry(node *Try) bool
	VisitFuncDef(node *FuncDef) bool
	VisitStructDef(node *StructDef) bool
	VisitSpecDef(node *SpecDef) bool
	VisitTypeDef(node *TypeDef) bool
	VisitRaise(node *Raise) bool
	VisitReturn(node *Return) bool
	VisitObjectEdit(node *ObjectEdit) bool
	VisitReq(node *Req) bool
}

// BaseVisitor provides default implementations for all visitor methods.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitProgram(node *Program) bool                       { return true }
func (v *BaseVisitor) VisitIdentifier(node *Identifier) bool                 { return true }
func (v *BaseVisitor) VisitNumberLiteral(node *NumberLiteral) bool           { return true }
func (v *BaseVisitor) VisitStringLiteral(node *StringLiteral) bool           { return true }
func (v *BaseVisitor) VisitBooleanLiteral(node *BooleanLiteral) bool         { return true }
func (v *BaseVisitor) VisitNullLiteral(node *NullLiteral) bool               { return true }
func (v *BaseVisitor) VisitListLiteral(node *ListLiteral) bool               { return true }
func (v *BaseVisitor) VisitFStringLiteral(node *FStringLiteral) bool         { return true }
func (v *BaseVisitor) VisitUnaryOp(node *UnaryOp) bool                       { return true }
func (v *BaseVisitor) VisitBinaryOp(node *BinaryOp) bool                     { return true }
func (v *BaseVisitor) VisitCall(node *Call) bool                             { return true }
func (v *BaseVisitor) VisitSubscript(node *Subscript) bool                   { return true }
func (v *BaseVisitor) VisitAttribute(node *Attribute) bool                   { return true }
func (v *BaseVisitor) VisitDynamicName(node *DynamicName) bool               { return true }
func (v *BaseVisitor) VisitDeclaration(node *Declaration) bool               { return true }
func (v *BaseVisitor) VisitAssignment(node *Assignment) bool                 { return true }
func (v *BaseVisitor) VisitDeletion(node *Deletion) bool                     { return true }
func (v *BaseVisitor) VisitBlock(node *Block) bool                           { return true }
func (v *BaseVisitor) VisitExpressionStatement(node *ExpressionStatement) bool { return true }
func (v *BaseVisitor) VisitIf(node *If) bool                                 { return true }
func (v *BaseVisitor) VisitWhile(node *While) bool                           { return true }
func (v *BaseVisitor) VisitFor(node *For) bool                               { return true }
func (v *BaseVisitor) VisitBreak(node *Break) bool                           { return true }
func (v *BaseVisitor) VisitContinue(node *Continue) bool                     { return true }
func (v *BaseVisitor) VisitSwitch(node *Switch) bool                         { return true }
func (v *BaseVisitor) VisitTry(node *Try) bool                               { return true }
func (v *BaseVisitor) VisitFuncDef(node *FuncDef) bool                       { return true }
func (v *BaseVisitor) VisitStructDef(node *StructDef) bool                   { return true }
func (v *BaseVisitor) VisitSpecDef(node *SpecDef) bool                       { return true }
func (v *BaseVisitor) VisitTypeDef(node *TypeDef) bool                       { return true }
func (v *BaseVisitor) VisitRaise(node *Raise) bool                           { return true }
func (v *BaseVisitor) VisitReturn(node *Return) bool                         { return true }
func (v *BaseVisitor) VisitObjectEdit(node *ObjectEdit) bool                 { return true }
func (v *BaseVisitor) VisitReq(node *Req) bool                               { return true }

// Walk traverses an AST, invoking the matching Visitor method for each node.
func Walk(node Node, visitor Visitor) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		if visitor.VisitProgram(n) {
			for _, s := range n.Statements {
				Walk(s, visitor)
			}
		}
	case *Identifier:
		visitor.VisitIdentifier(n)
	case *NumberLiteral:
		visitor.VisitNumberLiteral(n)
	case *StringLiteral:
		visitor.VisitStringLiteral(n)
	case *BooleanLiteral:
		visitor.VisitBooleanLiteral(n)
	case *NullLiteral:
		visitor.VisitNullLiteral(n)
	case *ListLiteral:
		if visitor.VisitListLiteral(n) {
			for _, e := range n.Elements {
				Walk(e, visitor)
			}
		}
	case *FStringLiteral:
		if visitor.VisitFStringLiteral(n) {
			for _, seg := range n.Segments {
				Walk(seg.Expr, visitor)
			}
		}
	case *UnaryOp:
		if visitor.VisitUnaryOp(n) {
			Walk(n.Operand, visitor)
		}
	case *BinaryOp:
		if visitor.VisitBinaryOp(n) {
			Walk(n.Left, visitor)
			Walk(n.Right, visitor)
		}
	case *Call:
		if visitor.VisitCall(n) {
			Walk(n.Callee, visitor)
			for _, a := range n.Args {
				Walk(a.Value, visitor)
				Walk(a.NameExpr, visitor)
			}
		}
	case *Subscript:
		if visitor.VisitSubscript(n) {
			Walk(n.Base, visitor)
			for _, a := range n.Args {
				Walk(a, visitor)
			}
		}
	case *Attribute:
		if visitor.VisitAttribute(n) {
			Walk(n.Base, visitor)
		}
	case *DynamicName:
		if visitor.VisitDynamicName(n) {
			Walk(n.Expr, visitor)
		}
	case *Declaration:
		if visitor.VisitDeclaration(n) {
			Walk(n.Name, visitor)
			Walk(n.Value, visitor)
		}
	case *Assignment:
		if visitor.VisitAssignment(n) {
			Walk(n.Target, visitor)
			Walk(n.Value, visitor)
		}
	case *Deletion:
		visitor.VisitDeletion(n)
	case *Block:
		if visitor.VisitBlock(n) {
			for _, s := range n.Statements {
				Walk(s, visitor)
			}
		}
	case *ExpressionStatement:
		if visitor.VisitExpressionStatement(n) {
			Walk(n.Expression, visitor)
		}
	case *If:
		if visitor.VisitIf(n) {
			Walk(n.Condition, visitor)
			Walk(n.Then, visitor)
			Walk(n.Else, visitor)
		}
	case *While:
		if visitor.VisitWhile(n) {
			Walk(n.Condition, visitor)
			Walk(n.Body, visitor)
		}
	case *For:
		if visitor.VisitFor(n) {
			Walk(n.Iter, visitor)
			Walk(n.Body, visitor)
		}
	case *Break:
		if visitor.VisitBreak(n) {
			Walk(n.Depth, visitor)
		}
	case *Continue:
		if visitor.VisitContinue(n) {
			Walk(n.Depth, visitor)
		}
	case *Switch:
		if visitor.VisitSwitch(n) {
			Walk(n.Scrutinee, visitor)
			for _, c := range n.Cases {
				Walk(c.Pattern, visitor)
				Walk(c.Body, visitor)
			}
		}
	case *Try:
		if visitor.VisitTry(n) {
			Walk(n.Body, visitor)
			Walk(n.CatchBody, visitor)
			Walk(n.ElseBody, visitor)
		}
	case *FuncDef:
		if visitor.VisitFuncDef(n) {
			for _, p := range n.Params {
				Walk(p.Default, visitor)
			}
			for _, d := range n.Decorators {
				Walk(d, visitor)
			}
			Walk(n.Body, visitor)
		}
	case *StructDef:
		if visitor.VisitStructDef(n) {
			for _, p := range n.Params {
				Walk(p.Default, visitor)
			}
			Walk(n.Body, visitor)
		}
	case *SpecDef:
		if visitor.VisitSpecDef(n) {
			for _, p := range n.Params {
				Walk(p.Default, visitor)
			}
			Walk(n.Body, visitor)
		}
	case *TypeDef:
		if visitor.VisitTypeDef(n) {
			Walk(n.StaticBody, visitor)
			Walk(n.InstanceBody, visitor)
		}
	case *Raise:
		if visitor.VisitRaise(n) {
			Walk(n.Expr, visitor)
		}
	case *Return:
		if visitor.VisitReturn(n) {
			Walk(n.Expr, visitor)
		}
	case *ObjectEdit:
		if visitor.VisitObjectEdit(n) {
			Walk(n.Target, visitor)
			Walk(n.Body, visitor)
		}
	case *Req:
		visitor.VisitReq(n)
	}
}
