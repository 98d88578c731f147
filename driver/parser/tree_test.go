package parser

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestPrintTree(t *testing.T) {
	tree := nonTermNode("seq",
		nonTermNode("seq",
			errorNode(
				termNode("a", "a"),
			),
			termNode("semi", ";"),
		),
		termNode("semi", ";"),
	)

	var b strings.Builder
	PrintTree(&b, tree)
	expected := `seq
├─ seq
│  ├─ error
│  │  └─ a "a"
│  └─ semi ";"
└─ semi ";"
`
	if b.String() != expected {
		t.Fatalf("unexpected tree; want:\n%v\ngot:\n%v", expected, b.String())
	}
}

func TestNode_Leaves(t *testing.T) {
	tree := nonTermNode("s",
		nonTermNode("t"),
		errorNode(
			termNode("a", "a"),
		),
		termNode("b", "b"),
	)
	leaves := tree.Leaves()
	if len(leaves) != 2 || leaves[0].Text != "a" || leaves[1].Text != "b" {
		t.Fatalf("unexpected leaves: %+v", leaves)
	}
}

func TestNode_MarshalJSON(t *testing.T) {
	tree := nonTermNode("s",
		termNode("id", "x"),
	)
	tree.Children[0].Position.Offset = 2
	tree.Children[0].Position.Col = 2

	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"type":2,"kind_name":"s","children":[{"type":1,"kind_name":"id","text":"x","offset":2,"row":0,"col":2}]}`
	if string(b) != expected {
		t.Fatalf("unexpected JSON; want: %v, got: %v", expected, string(b))
	}

	_, err = json.Marshal(&Node{Type: NodeType(9)})
	if err == nil {
		t.Fatalf("an invalid node type must be rejected")
	}
}
