package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a program back to canonical source form, one statement per
// line. Used for debugging and as the textual identity of synthetically
// built scripts that have no original source.
func Print(p *Program) string {
	var sb strings.Builder
	for i, s := range p.Stmts {
		if i > 0 {
			sb.WriteString(";\n")
		}
		printNode(&sb, s)
	}
	return sb.String()
}

// PrintNode renders a single node to canonical source form.
func PrintNode(n Node) string {
	var sb strings.Builder
	printNode(&sb, n)
	return sb.String()
}

func printNode(sb *strings.Builder, n Node) {
	switch t := n.(type) {
	case *Literal:
		printLiteral(sb, t.Value)
	case *Ident:
		sb.WriteString(t.Name)
	case *ArrayLit:
		sb.WriteByte('[')
		printList(sb, t.Elems)
		sb.WriteByte(']')
	case *Unary:
		sb.WriteString(t.Op)
		printNode(sb, t.X)
	case *Binary:
		sb.WriteByte('(')
		printNode(sb, t.L)
		sb.WriteString(" " + t.Op + " ")
		printNode(sb, t.R)
		sb.WriteByte(')')
	case *Ternary:
		sb.WriteByte('(')
		printNode(sb, t.Cond)
		sb.WriteString(" ? ")
		printNode(sb, t.Then)
		sb.WriteString(" : ")
		printNode(sb, t.Else)
		sb.WriteByte(')')
	case *Assign:
		printNode(sb, t.Target)
		sb.WriteString(" = ")
		printNode(sb, t.Value)
	case *Access:
		printNode(sb, t.X)
		sb.WriteByte('.')
		sb.WriteString(t.Name)
	case *Index:
		printNode(sb, t.X)
		sb.WriteByte('[')
		printNode(sb, t.Key)
		sb.WriteByte(']')
	case *Call:
		printNode(sb, t.X)
		sb.WriteByte('.')
		sb.WriteString(t.Name)
		sb.WriteByte('(')
		printList(sb, t.Args)
		sb.WriteByte(')')
	case *FuncCall:
		printNode(sb, t.Callee)
		sb.WriteByte('(')
		printList(sb, t.Args)
		sb.WriteByte(')')
	case *VarDecl:
		sb.WriteString("var " + t.Name + " = ")
		printNode(sb, t.Value)
	case *If:
		sb.WriteString("if (")
		printNode(sb, t.Cond)
		sb.WriteString(") ")
		printNode(sb, t.Then)
		if t.Else != nil {
			sb.WriteString(" else ")
			printNode(sb, t.Else)
		}
	case *While:
		sb.WriteString("while (")
		printNode(sb, t.Cond)
		sb.WriteString(") ")
		printNode(sb, t.Body)
	case *Block:
		sb.WriteString("{ ")
		for i, s := range t.Stmts {
			if i > 0 {
				sb.WriteString("; ")
			}
			printNode(sb, s)
		}
		sb.WriteString(" }")
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}

func printList(sb *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		printNode(sb, n)
	}
}

func printLiteral(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case string:
		sb.WriteString(strconv.Quote(t))
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}
