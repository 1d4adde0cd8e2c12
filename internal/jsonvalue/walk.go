package jsonvalue

import (
	"strconv"
)

// Path is a dot/bracket location inside a document, e.g. root.items[3].name.
type Path string

// Key returns the path of member key below p.
func (p Path) Key(key string) Path {
	if p == "" {
		return Path(key)
	}
	return Path(string(p) + "." + key)
}

// Index returns the path of element i below p.
func (p Path) Index(i int) Path {
	return Path(string(p) + "[" + strconv.Itoa(i) + "]")
}

func (p Path) String() string { return string(p) }

// Visitor receives callbacks from Walk. Returning a non-nil error stops the
// walk and Walk returns that error unchanged.
type Visitor interface {
	// VisitArray is called before the elements of an array are visited.
	VisitArray(path Path, length int) error
	// VisitKey is called for each object member key, with the path the member
	// value will have.
	VisitKey(path Path, key string) error
	// VisitString is called for each string value.
	VisitString(path Path, s string) error
}

// Walk visits v depth-first in document order, starting at path.
func Walk(v Value, path Path, visitor Visitor) error {
	switch t := v.(type) {
	case String:
		return visitor.VisitString(path, string(t))
	case Array:
		if err := visitor.VisitArray(path, len(t)); err != nil {
			return err
		}
		for i, el := range t {
			if err := Walk(el, path.Index(i), visitor); err != nil {
				return err
			}
		}
	case *Object:
		for _, m := range t.Members() {
			child := path.Key(m.Key)
			if err := visitor.VisitKey(child, m.Key); err != nil {
				return err
			}
			if err := Walk(m.Value, child, visitor); err != nil {
				return err
			}
		}
	}
	return nil
}
