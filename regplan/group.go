package regplan

// Item is either a Modification or a Group.
type Item interface {
	appendTo(list []Modification) []Modification
}

// Group is an ordered collection of items. Nesting groups has no effect on the
// resulting plan, it only exists to name and reuse sets of modifications.
type Group []Item

// Compose groups the given items, preserving their order.
func Compose(items ...Item) Group {
	return Group(items)
}

func (g Group) appendTo(list []Modification) []Modification {
	for _, item := range g {
		if item != nil {
			list = item.appendTo(list)
		}
	}
	return list
}

// Flatten returns the leaf modifications of g in pre-order, left to right.
func (g Group) Flatten() []Modification {
	return g.appendTo(nil)
}

// Plan merges the modifications of g into one write per address.
func (g Group) Plan() Plan {
	return Merge(g.Flatten())
}

// Flatten returns the leaf modifications of all items in declaration order.
// No merging is performed.
func Flatten(items ...Item) []Modification {
	return Group(items).Flatten()
}
