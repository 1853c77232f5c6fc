package regplan

import (
	"bytes"
	"fmt"
)

// Plan is an ordered list of planned writes, at most one per address, ordered
// by the first occurrence of each address in the flattened input.
type Plan []Modification

// PlanOf flattens and merges the given items.
func PlanOf(items ...Item) Plan {
	return Merge(Flatten(items...))
}

// Merge combines all modifications sharing an address into a single modification.
// For every bit, the value of the last modification claiming that bit wins.
// The input slice is not modified.
func Merge(mods []Modification) Plan {
	var plan Plan
	remaining := mods
	for len(remaining) > 0 {
		head := remaining[0].normalized()
		var rest []Modification
		for _, m := range remaining[1:] {
			if m.Address == head.Address {
				head = head.combine(m)
			} else {
				rest = append(rest, m)
			}
		}
		plan = append(plan, head)
		remaining = rest
	}
	return plan
}

// Addresses returns the addresses touched by the plan, in execution order.
func (p Plan) Addresses() []Address {
	res := make([]Address, len(p))
	for i, w := range p {
		res[i] = w.Address
	}
	return res
}

// Lookup returns the planned write for addr.
func (p Plan) Lookup(addr Address) (Modification, bool) {
	for _, w := range p {
		if w.Address == addr {
			return w, true
		}
	}
	return Modification{}, false
}

func (p Plan) String() string {
	var buf bytes.Buffer
	for i, w := range p {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%v", w)
	}
	return buf.String()
}

func (p Plan) appendTo(list []Modification) []Modification {
	return append(list, p...)
}
