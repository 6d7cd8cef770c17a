package permission

// Remap substitutes one requested Permission for another before the role
// maps are consulted. A subtype may, for example, require readwritepublish
// whenever readwrite is requested.
type Remap struct {
	From Permission
	To   Permission
}

// RemapRegistry maps an item type identifier to its ordered remap rules.
// Rules apply in declared order and each rule's output feeds the next.
// Populated once at startup from configuration; read-only afterwards.
type RemapRegistry struct {
	rules map[string][]Remap
}

func NewRemapRegistry() *RemapRegistry {
	return &RemapRegistry{rules: make(map[string][]Remap)}
}

// Declare appends remap rules for the given item type, preserving order.
func (r *RemapRegistry) Declare(itemType string, rules ...Remap) {
	r.rules[itemType] = append(r.rules[itemType], rules...)
}

// Resolve applies the type's remap chain to the requested level. A rule
// fires when its From equals the current value; the chain result is the
// effective permission to evaluate. Types with no rules resolve to the
// requested level unchanged.
func (r *RemapRegistry) Resolve(itemType string, requested Permission) Permission {
	effective := requested
	for _, rule := range r.rules[itemType] {
		if rule.From == effective {
			effective = rule.To
		}
	}
	return effective
}
