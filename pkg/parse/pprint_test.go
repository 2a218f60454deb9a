package parse

import (
	"strings"
	"testing"
)

var pprintWant = `PROG
├── CREATE
│   ├── x
│   └── ADD
│       ├── 1
│       └── 2
├── PRINT
│   └── |hi|
└── EOF
`

func TestPPrint(t *testing.T) {
	tree, err := Parse(NewLexer(Source{Code: "CREATE x ADD 1 2\nPRINT |hi|"}, keywords), Config{})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	PPrint(&sb, tree)
	if got := sb.String(); got != pprintWant {
		t.Errorf("got:\n%s\nwant:\n%s", got, pprintWant)
	}
}
