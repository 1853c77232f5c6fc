package regplan

import (
	"fmt"
	"strings"
)

// Conflict describes two modifications of the same register claiming common bits.
// First precedes Second in the flattened order, so Second wins for the bits in Bits.
type Conflict struct {
	Address     Address
	Bits        Word
	First       Modification
	Second      Modification
	FirstIndex  int
	SecondIndex int
}

func (c Conflict) String() string {
	return fmt.Sprintf("%v: bits %#x claimed by modification %v (%v) and overridden by modification %v (%v)",
		c.Address, uint32(c.Bits), c.FirstIndex, c.First, c.SecondIndex, c.Second)
}

// Conflicts compares all pairs of same-address leaves of the given items and returns
// those with intersecting masks. Planning itself ignores conflicts and lets the last
// modification win.
func Conflicts(items ...Item) []Conflict {
	mods := Flatten(items...)
	var res []Conflict
	for i, a := range mods {
		for j := i + 1; j < len(mods); j++ {
			b := mods[j]
			if a.Address != b.Address {
				continue
			}
			if overlap := a.Mask & b.Mask; overlap != 0 {
				res = append(res, Conflict{
					Address:     a.Address,
					Bits:        overlap,
					First:       a,
					Second:      b,
					FirstIndex:  i,
					SecondIndex: j,
				})
			}
		}
	}
	return res
}

// ConflictError is returned by PlanStrict.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = c.String()
	}
	return fmt.Sprintf("%v conflicting register modification(s): %v", len(e.Conflicts), strings.Join(lines, "; "))
}

// PlanStrict works like PlanOf, but treats any overlap between modifications
// of the same register as an error.
func PlanStrict(items ...Item) (Plan, error) {
	if conflicts := Conflicts(items...); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}
	return PlanOf(items...), nil
}
