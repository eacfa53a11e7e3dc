package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *VarDecl:
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *ExprStmt:
		Walk(n.X, v)

	case *AssignExpr:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *LogicalExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *BinaryExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *UnaryExpr:
		Walk(n.X, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, arg := range n.Args {
			Walk(arg, v)
		}

		// Leaf nodes: Name, BasicLit, BadExpr
		// No children to visit
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// WalkList walks each statement of a program in order.
func WalkList(stmts []Stmt, v Visitor) {
	for _, s := range stmts {
		Walk(s, v)
	}
}

// CountNodes returns the number of nodes in stmts.
func CountNodes(stmts []Stmt) int {
	n := 0
	WalkList(stmts, func(Node) bool {
		n++
		return true
	})
	return n
}
