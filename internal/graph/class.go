package graph

import (
	"fmt"
	"strings"
)

// Class is a scene category.
type Class int

// Scene categories, in label index order.
const (
	Buildings Class = iota
	Forest
	Glacier
	Mountain
	Sea
	Street
)

var classNames = []string{"Buildings", "Forest", "Glacier", "Mountain", "Sea", "Street"}

// Classes returns every class in label index order.
func Classes() []Class {
	out := make([]Class, len(classNames))
	for i := range out {
		out[i] = Class(i)
	}
	return out
}

// ClassNames returns the class names in label index order.
func ClassNames() []string {
	return append([]string(nil), classNames...)
}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	return c >= 0 && int(c) < len(classNames)
}

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ParseClass resolves a class name, ignoring case and surrounding space.
func ParseClass(s string) (Class, error) {
	s = strings.TrimSpace(s)
	for i, name := range classNames {
		if strings.EqualFold(s, name) {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown class %q (want one of %s)", s, strings.Join(classNames, ", "))
}
