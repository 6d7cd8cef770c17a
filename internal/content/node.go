package content

import "time"

// Node is the in-memory Item implementation used by the demo server,
// scenario files, and tests. The production persistence layer supplies
// its own Item.
type Node struct {
	NodePath    string     `yaml:"path" json:"path"`
	NodeType    string     `yaml:"type,omitempty" json:"type,omitempty"`
	PublishedAt *time.Time `yaml:"published,omitempty" json:"published,omitempty"`
	ExpiresAt   *time.Time `yaml:"expires,omitempty" json:"expires,omitempty"`
	// AllowedRoles is the item's own access list. Empty means public:
	// IsAuthorized returns true for every principal.
	AllowedRoles []string `yaml:"allowed_roles,omitempty" json:"allowed_roles,omitempty"`

	savedBy string
}

func (n *Node) Path() string           { return n.NodePath }
func (n *Node) Type() string           { return n.NodeType }
func (n *Node) Published() *time.Time  { return n.PublishedAt }
func (n *Node) Expires() *time.Time    { return n.ExpiresAt }
func (n *Node) SavedBy() string        { return n.savedBy }
func (n *Node) SetSavedBy(name string) { n.savedBy = name }

// IsAuthorized implements the item-level public/private flag: an empty
// access list admits everyone, otherwise the principal's name or one of
// its roles must appear in the list.
func (n *Node) IsAuthorized(p Principal) bool {
	if len(n.AllowedRoles) == 0 {
		return true
	}
	for _, entry := range n.AllowedRoles {
		if entry == p.Name || p.HasRole(entry) {
			return true
		}
	}
	return false
}
