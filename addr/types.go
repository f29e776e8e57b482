// Package addr defines Address, the N-dimensional integer tuple that
// identifies a tile in a TopLevel architecture, and Location, an Address
// paired with a slot index for fabrics where a tile carries more than one
// mappable component.
//
// Dimensionality is fixed per Address at construction and never changes;
// mixing Addresses of different dimensionality is a programming error
// surfaced via ErrDimensionMismatch rather than silently truncated or padded.
package addr

import (
	"errors"
	"fmt"
)

// Sentinel errors for addr operations.
var (
	// ErrDimensionMismatch indicates two Addresses of different dimensionality
	// were combined (equality, arithmetic, min/max).
	ErrDimensionMismatch = errors.New("addr: dimension mismatch")

	// ErrEmptyAddress indicates an Address was constructed with zero dimensions.
	ErrEmptyAddress = errors.New("addr: address must have at least one dimension")

	// ErrIndexOutOfRange indicates a componentwise index fell outside its
	// declared bound when flattening/unflattening an N-dimensional array.
	ErrIndexOutOfRange = errors.New("addr: index out of range")
)

// Address is an immutable N-dimensional integer tuple locating a tile.
// Two Addresses are only comparable if they share the same dimensionality.
type Address struct {
	coords []int
}

// New constructs an Address from the given coordinates. Dimensionality is
// fixed to len(coords) for the lifetime of the value.
func New(coords ...int) (Address, error) {
	if len(coords) == 0 {
		return Address{}, ErrEmptyAddress
	}
	cp := make([]int, len(coords))
	copy(cp, coords)

	return Address{coords: cp}, nil
}

// MustNew is New but panics on error; intended for static test fixtures and
// package-level constants, never for user input.
func MustNew(coords ...int) Address {
	a, err := New(coords...)
	if err != nil {
		panic(err)
	}

	return a
}

// Dim returns the dimensionality N of the Address.
func (a Address) Dim() int { return len(a.coords) }

// At returns the i-th coordinate. Panics if i is out of [0, Dim()) — callers
// within this module always index with a value derived from Dim().
func (a Address) At(i int) int { return a.coords[i] }

// Coords returns a defensive copy of the underlying coordinate slice.
func (a Address) Coords() []int {
	cp := make([]int, len(a.coords))
	copy(cp, a.coords)

	return cp
}

// Equal reports whether a and b name the same tile. Addresses of differing
// dimensionality are never equal (and do not error — Equal is a predicate,
// not a fallible operation).
func (a Address) Equal(b Address) bool {
	if len(a.coords) != len(b.coords) {
		return false
	}
	for i := range a.coords {
		if a.coords[i] != b.coords[i] {
			return false
		}
	}

	return true
}

// String renders the Address as "(c0,c1,...,cN-1)".
func (a Address) String() string {
	s := "("
	for i, c := range a.coords {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", c)
	}

	return s + ")"
}

// Add returns the componentwise sum a+b. Both must share dimensionality.
func Add(a, b Address) (Address, error) {
	if len(a.coords) != len(b.coords) {
		return Address{}, fmt.Errorf("addr: Add %s + %s: %w", a, b, ErrDimensionMismatch)
	}
	out := make([]int, len(a.coords))
	for i := range a.coords {
		out[i] = a.coords[i] + b.coords[i]
	}

	return Address{coords: out}, nil
}

// Sub returns the componentwise difference a-b. Both must share dimensionality.
func Sub(a, b Address) (Address, error) {
	if len(a.coords) != len(b.coords) {
		return Address{}, fmt.Errorf("addr: Sub %s - %s: %w", a, b, ErrDimensionMismatch)
	}
	out := make([]int, len(a.coords))
	for i := range a.coords {
		out[i] = a.coords[i] - b.coords[i]
	}

	return Address{coords: out}, nil
}

// Min returns the componentwise minimum of a and b.
func Min(a, b Address) (Address, error) {
	if len(a.coords) != len(b.coords) {
		return Address{}, fmt.Errorf("addr: Min %s,%s: %w", a, b, ErrDimensionMismatch)
	}
	out := make([]int, len(a.coords))
	for i := range a.coords {
		if a.coords[i] < b.coords[i] {
			out[i] = a.coords[i]
		} else {
			out[i] = b.coords[i]
		}
	}

	return Address{coords: out}, nil
}

// Max returns the componentwise maximum of a and b.
func Max(a, b Address) (Address, error) {
	if len(a.coords) != len(b.coords) {
		return Address{}, fmt.Errorf("addr: Max %s,%s: %w", a, b, ErrDimensionMismatch)
	}
	out := make([]int, len(a.coords))
	for i := range a.coords {
		if a.coords[i] > b.coords[i] {
			out[i] = a.coords[i]
		} else {
			out[i] = b.coords[i]
		}
	}

	return Address{coords: out}, nil
}

// LInfDistance returns the Chebyshev (L∞) distance between a and b, used by
// the move generator to bound a candidate destination within a hop radius.
func LInfDistance(a, b Address) (int, error) {
	if len(a.coords) != len(b.coords) {
		return 0, fmt.Errorf("addr: LInfDistance %s,%s: %w", a, b, ErrDimensionMismatch)
	}
	max := 0
	for i := range a.coords {
		d := a.coords[i] - b.coords[i]
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}

	return max, nil
}

// Location pairs an Address with a slot index identifying one of possibly
// several mappable components inside that tile. In the flat regime (each
// tile has at most one mappable slot) callers use Address directly and
// Slot is always 0.
type Location struct {
	Addr Address
	Slot int
}

// Equal reports whether two Locations name the same (address, slot) pair.
func (l Location) Equal(o Location) bool {
	return l.Slot == o.Slot && l.Addr.Equal(o.Addr)
}

// String renders the Location as "Addr#Slot".
func (l Location) String() string {
	return fmt.Sprintf("%s#%d", l.Addr, l.Slot)
}

// Space describes the bounding box of a TopLevel's tile grid: Dim-many
// extents, one per axis. It is used to flatten an Address into a dense
// linear index for LUT-style storage (distancelut, maptable).
type Space struct {
	extents []int
}

// NewSpace constructs a Space with the given per-axis extents (all > 0).
func NewSpace(extents ...int) (Space, error) {
	if len(extents) == 0 {
		return Space{}, ErrEmptyAddress
	}
	for i, e := range extents {
		if e <= 0 {
			return Space{}, fmt.Errorf("addr: NewSpace axis %d extent=%d: %w", i, e, ErrIndexOutOfRange)
		}
	}
	cp := make([]int, len(extents))
	copy(cp, extents)

	return Space{extents: cp}, nil
}

// Dim returns the dimensionality of the Space.
func (s Space) Dim() int { return len(s.extents) }

// Extent returns the size of axis i.
func (s Space) Extent(i int) int { return s.extents[i] }

// Size returns the total number of tiles in the Space (product of extents).
func (s Space) Size() int {
	n := 1
	for _, e := range s.extents {
		n *= e
	}

	return n
}

// Index flattens a in this Space into [0, Size()) using row-major order
// (last axis varies fastest), mirroring the "r,c" row-major convention the
// builder package uses for its Grid constructor.
func (s Space) Index(a Address) (int, error) {
	if a.Dim() != s.Dim() {
		return 0, fmt.Errorf("addr: Index %s in space of dim %d: %w", a, s.Dim(), ErrDimensionMismatch)
	}
	idx := 0
	for i := 0; i < s.Dim(); i++ {
		c := a.coords[i]
		if c < 0 || c >= s.extents[i] {
			return 0, fmt.Errorf("addr: Index %s axis %d out of [0,%d): %w", a, i, s.extents[i], ErrIndexOutOfRange)
		}
		idx = idx*s.extents[i] + c
	}

	return idx, nil
}

// Unindex is the inverse of Index: it reconstructs the Address for a flat
// index produced by Index.
func (s Space) Unindex(idx int) (Address, error) {
	if idx < 0 || idx >= s.Size() {
		return Address{}, fmt.Errorf("addr: Unindex %d outside [0,%d): %w", idx, s.Size(), ErrIndexOutOfRange)
	}
	coords := make([]int, s.Dim())
	rem := idx
	for i := s.Dim() - 1; i >= 0; i-- {
		coords[i] = rem % s.extents[i]
		rem /= s.extents[i]
	}

	return Address{coords: coords}, nil
}

// AllAddresses returns every Address in the Space in ascending flat-index
// order (row-major), the same determinism guarantee builder.Grid gives for
// vertex emission order.
func (s Space) AllAddresses() []Address {
	out := make([]Address, s.Size())
	for i := range out {
		a, _ := s.Unindex(i) // i is always in range by construction
		out[i] = a
	}

	return out
}
