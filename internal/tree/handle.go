package tree

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Handle references a node slot in a Tree.
//
// A handle is a plain value: copy it, compare it, use it as a map key. It
// carries the slot index and the generation the slot had when the node was
// inserted, so a handle kept past a Remove never aliases a node that later
// reuses the same slot.
type Handle struct {
	index uint32
	gen   uint32
}

// Index returns the arena slot index.
func (h Handle) Index() uint32 { return h.index }

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint32 { return h.gen }

// Compare orders handles by index, then generation.
func (h Handle) Compare(o Handle) int {
	if c := cmp.Compare(h.index, o.index); c != 0 {
		return c
	}
	return cmp.Compare(h.gen, o.gen)
}

// String renders the handle as n<index> or n<index>.<gen> once the slot has
// been reused.
func (h Handle) String() string {
	if h.gen == 0 {
		return "n" + strconv.FormatUint(uint64(h.index), 10)
	}
	return "n" + strconv.FormatUint(uint64(h.index), 10) + "." + strconv.FormatUint(uint64(h.gen), 10)
}

// ParseHandle parses the String form. The leading "n" is optional.
func ParseHandle(s string) (Handle, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "n")
	if raw == "" {
		return Handle{}, fmt.Errorf("invalid handle %q", s)
	}
	idxPart, genPart, hasGen := strings.Cut(raw, ".")
	idx, err := strconv.ParseUint(idxPart, 10, 32)
	if err != nil {
		return Handle{}, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	h := Handle{index: uint32(idx)}
	if hasGen {
		gen, err := strconv.ParseUint(genPart, 10, 32)
		if err != nil {
			return Handle{}, fmt.Errorf("invalid handle %q: %w", s, err)
		}
		h.gen = uint32(gen)
	}
	return h, nil
}

func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(b []byte) error {
	parsed, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
