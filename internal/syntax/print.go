package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// FprintList writes a textual representation of each statement to w.
func FprintList(w io.Writer, stmts []Stmt) {
	p := &printer{w: w}
	for _, s := range stmts {
		p.print(s)
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labeled child node one level deeper.
func (p *printer) field(label string, node Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *VarDecl:
		p.printf("VarDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if n.Value != nil {
			p.field("Value", n.Value)
		}
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if len(n.Params) > 0 {
			names := make([]string, len(n.Params))
			for i, param := range n.Params {
				names[i] = param.Value
			}
			p.printf("Params: %s\n", strings.Join(names, ", "))
		}
		if n.Body != nil {
			p.field("Body", n.Body)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		if n.Else != nil {
			p.field("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *BadExpr:
		p.printf("BadExpr %s\n", n.pos)

	case *AssignExpr:
		p.printf("AssignExpr %s %s\n", n.pos, n.Name.Value)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *LogicalExpr:
		p.printf("LogicalExpr %s %s\n", n.pos, n.Op)
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", n.pos, n.Op)
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", n.pos, n.Op)
		p.indent++
		p.print(n.X)
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s\n", n.pos)
		p.indent++
		p.field("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString returns a compact, fully parenthesized form of e, such as
// "(+ 2 (* 3 4))". Grouping is shown as (group x).
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			fmt.Fprintf(b, "%q", x.Value)
		} else {
			b.WriteString(x.Value)
		}
	case *BadExpr:
		b.WriteString("<bad>")
	case *AssignExpr:
		fmt.Fprintf(b, "(= %s ", x.Name.Value)
		writeExpr(b, x.Value)
		b.WriteByte(')')
	case *LogicalExpr:
		writeOp(b, x.Op.String(), x.X, x.Y)
	case *BinaryExpr:
		writeOp(b, x.Op.String(), x.X, x.Y)
	case *UnaryExpr:
		writeOp(b, x.Op.String(), x.X)
	case *ParenExpr:
		writeOp(b, "group", x.X)
	case *CallExpr:
		writeOp(b, "call", append([]Expr{x.Fun}, x.Args...)...)
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func writeOp(b *strings.Builder, op string, args ...Expr) {
	b.WriteByte('(')
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte(' ')
		writeExpr(b, a)
	}
	b.WriteByte(')')
}
