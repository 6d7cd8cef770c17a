package httpgate

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/contentgate/internal/content"
)

// Tree is the demo server's in-memory content tree, keyed by item path.
// The production URL-to-node resolution layer lives upstream; this only
// backs the `serve` command and tests.
type Tree struct {
	mu    sync.RWMutex
	nodes map[string]*content.Node
}

// NewTree builds a tree from the given nodes.
func NewTree(nodes ...*content.Node) *Tree {
	t := &Tree{nodes: make(map[string]*content.Node, len(nodes))}
	for _, n := range nodes {
		t.nodes[normalize(n.NodePath)] = n
	}
	return t
}

// LoadTree reads a YAML list of nodes.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content tree: %w", err)
	}
	var nodes []*content.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse content tree: %w", err)
	}
	return NewTree(nodes...), nil
}

// Resolve returns the item at the given URL path, or nil. A nil tree
// resolves nothing.
func (t *Tree) Resolve(path string) content.Item {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[normalize(path)]
	if !ok {
		// Typed nil would not compare equal to nil through the interface.
		return nil
	}
	return n
}

// Remove drops an item from the tree.
func (t *Tree) Remove(path string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.nodes, normalize(path))
}

func normalize(path string) string {
	path = "/" + strings.Trim(path, "/")
	return path
}
