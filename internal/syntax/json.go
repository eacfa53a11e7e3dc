package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

// FprintListJSON writes a program as a JSON array of statements.
func FprintListJSON(w io.Writer, stmts []Stmt) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mapSlice(stmts, func(s Stmt) interface{} { return toJSON(s) }))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *VarDecl:
		m := map[string]interface{}{
			"type": "VarDecl",
			"pos":  n.pos.String(),
			"name": n.Name.Value,
		}
		if n.Value != nil {
			m["value"] = toJSON(n.Value)
		}
		return m

	case *FuncDecl:
		m := map[string]interface{}{
			"type":   "FuncDecl",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"params": mapSlice(n.Params, func(p *Name) interface{} { return p.Value }),
		}
		if n.Body != nil {
			m["body"] = toJSON(n.Body)
		}
		return m

	case *BlockStmt:
		return map[string]interface{}{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, func(s Stmt) interface{} { return toJSON(s) }),
		}

	case *IfStmt:
		m := map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		return map[string]interface{}{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *ReturnStmt:
		m := map[string]interface{}{
			"type": "ReturnStmt",
			"pos":  n.pos.String(),
		}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *ExprStmt:
		return map[string]interface{}{
			"type": "ExprStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		m := map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}
		if n.Kind == NumberLit {
			m["num"] = n.Num
		}
		return m

	case *BadExpr:
		return map[string]interface{}{
			"type": "BadExpr",
			"pos":  n.pos.String(),
		}

	case *AssignExpr:
		return map[string]interface{}{
			"type":  "AssignExpr",
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *LogicalExpr:
		return map[string]interface{}{
			"type": "LogicalExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *BinaryExpr:
		return map[string]interface{}{
			"type": "BinaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *UnaryExpr:
		return map[string]interface{}{
			"type": "UnaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}

	case *ParenExpr:
		return map[string]interface{}{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *CallExpr:
		return map[string]interface{}{
			"type":   "CallExpr",
			"pos":    n.pos.String(),
			"fun":    toJSON(n.Fun),
			"args":   mapSlice(n.Args, func(a Expr) interface{} { return toJSON(a) }),
			"rparen": n.Rparen.String(),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
