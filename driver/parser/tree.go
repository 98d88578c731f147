package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/nihei9/sccheck/driver/lexer"
)

type NodeType int

const (
	NodeTypeError       NodeType = 0
	NodeTypeTerminal    NodeType = 1
	NodeTypeNonTerminal NodeType = 2
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeError:
		return "error"
	case NodeTypeTerminal:
		return "terminal"
	case NodeTypeNonTerminal:
		return "non-terminal"
	}
	return fmt.Sprintf("<invalid node type: %d>", int(t))
}

// Node is a node of a concrete syntax tree. An error node stands for the error symbol, and its
// children are the nodes the parser discarded while trapping the error.
type Node struct {
	Type     NodeType
	KindName string
	Text     string
	Position lexer.Position
	Children []*Node
}

func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeTypeError:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Row      int      `json:"row"`
			Col      int      `json:"col"`
			Children []*Node  `json:"children,omitempty"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Row:      n.Position.Row,
			Col:      n.Position.Col,
			Children: n.Children,
		})
	case NodeTypeTerminal:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Text     string   `json:"text"`
			Offset   int      `json:"offset"`
			Row      int      `json:"row"`
			Col      int      `json:"col"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Text:     n.Text,
			Offset:   n.Position.Offset,
			Row:      n.Position.Row,
			Col:      n.Position.Col,
		})
	case NodeTypeNonTerminal:
		return json.Marshal(struct {
			Type     NodeType `json:"type"`
			KindName string   `json:"kind_name"`
			Children []*Node  `json:"children"`
		}{
			Type:     n.Type,
			KindName: n.KindName,
			Children: n.Children,
		})
	default:
		return nil, fmt.Errorf("invalid node type: %v", n.Type)
	}
}

// Leaves returns the terminal nodes under a node from left to right.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Type == NodeTypeTerminal {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return leaves
}

// PrintTree prints a syntax tree whose root is `node`.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch node.Type {
	case NodeTypeError, NodeTypeNonTerminal:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	case NodeTypeTerminal:
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, node.KindName, strconv.Quote(node.Text))
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
