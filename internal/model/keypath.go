package model

import "strconv"

// PathElem is one step of a KeyPath: either a string map key or a
// non-negative array index (spec.md §3 "key path: string | non-negative
// integer"). Go has no built-in sum type, so this is the tagged-struct
// rendering called for in spec.md's design note §9.
type PathElem struct {
	key   string
	index int
	isKey bool
}

func KeyElem(key string) PathElem  { return PathElem{key: key, isKey: true} }
func IndexElem(index int) PathElem { return PathElem{index: index} }

func (p PathElem) IsKey() bool { return p.isKey }
func (p PathElem) Key() string { return p.key }
func (p PathElem) Index() int  { return p.index }

func (p PathElem) String() string {
	if p.isKey {
		return p.key
	}
	return strconv.Itoa(p.index)
}

// KeyPath is the ordered traversal path from the root value to the
// current point, passed to transform hooks and never persisted beyond the
// traversal that produced it.
type KeyPath []PathElem

func (p KeyPath) String() string {
	s := ""
	for i, e := range p {
		if i > 0 {
			s += "."
		}
		s += e.String()
	}
	return s
}
