// Package ast implements the syntax tree of cmdl programs.
//
// The tree is an arena: nodes live in a slice and refer to each other by
// NodeID. The interpreter rewrites the tree while evaluating it, folding
// subcommand subtrees into literal leaves. Ids of removed nodes are recycled
// through a free list, so an id must not be used after its node is removed.
package ast

import (
	"src.cmdl.sh/pkg/token"
)

// NodeID identifies a node in a Tree.
type NodeID int

// NoNode is the Parent of the root and of detached nodes.
const NoNode NodeID = -1

type node struct {
	tok      token.Token
	parent   NodeID
	children []NodeID
	live     bool
}

// Tree is an n-ary tree of tokens.
type Tree struct {
	nodes []node
	free  []NodeID
	root  NodeID
}

// New creates a Tree whose root holds the given token.
func New(rootTok token.Token) *Tree {
	t := &Tree{}
	t.root = t.Create(rootTok)
	return t
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID { return t.root }

// Create creates a detached node holding tok. It reuses the id of a freed
// node if there is one.
func (t *Tree) Create(tok token.Token) NodeID {
	n := node{tok: tok, parent: NoNode, live: true}
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// AppendChild appends child to the children of parent. The child must be a
// detached node.
func (t *Tree) AppendChild(parent, child NodeID) {
	if !t.IsLive(parent) || !t.IsLive(child) || child == t.root {
		panic("ast: AppendChild with a dead node or the root")
	}
	if t.nodes[child].parent != NoNode {
		panic("ast: AppendChild with a node that already has a parent")
	}
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[child].parent = parent
}

// ReplaceWithLiteral frees the subtree under id and turns the node into a
// leaf holding tok. The node keeps its position among its siblings.
func (t *Tree) ReplaceWithLiteral(id NodeID, tok token.Token) {
	if !t.IsLive(id) {
		return
	}
	for _, child := range t.nodes[id].children {
		t.Free(child)
	}
	t.nodes[id].children = nil
	t.nodes[id].tok = tok
}

// Delete detaches id from its parent, preserving the order of the remaining
// siblings, and frees the detached subtree. It does nothing if id is the
// root, is dead, or is not found among its parent's children.
func (t *Tree) Delete(id NodeID) {
	if id == t.root || !t.IsLive(id) {
		return
	}
	parent := t.nodes[id].parent
	if parent == NoNode {
		return
	}
	siblings := t.nodes[parent].children
	for i, sibling := range siblings {
		if sibling == id {
			t.nodes[parent].children = append(siblings[:i:i], siblings[i+1:]...)
			t.Free(id)
			return
		}
	}
}

// Free releases the subtree rooted at id. The caller is responsible for
// having detached it from its parent, or for the parent going away too.
func (t *Tree) Free(id NodeID) {
	if !t.IsLive(id) {
		return
	}
	for _, child := range t.nodes[id].children {
		t.Free(child)
	}
	t.nodes[id] = node{parent: NoNode}
	t.free = append(t.free, id)
}

// IsLive reports whether id refers to a node that has not been freed.
func (t *Tree) IsLive(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].live
}

// Token returns the token held by the node.
func (t *Tree) Token(id NodeID) token.Token { return t.nodes[id].tok }

// Parent returns the parent of the node, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the children of the node. The returned slice must not be
// modified, and is invalidated by any mutation of the tree.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) - len(t.free) }

// Walk calls f for every node of the subtree rooted at id in pre-order. If f
// returns false, the children of that node are skipped.
func (t *Tree) Walk(id NodeID, f func(NodeID) bool) {
	if !f(id) {
		return
	}
	for _, child := range t.nodes[id].children {
		t.Walk(child, f)
	}
}
