package models

type categoryRefKind uint8

const (
	categoryRefNone categoryRefKind = iota
	categoryRefID
	categoryRefName
)

// CategoryRef is a tagged reference to a log category: either a
// concrete id, a category name awaiting resolution, or nothing at all.
// The zero value means no reference.
type CategoryRef struct {
	kind categoryRefKind
	id   int
	name string
}

// CategoryID returns a reference already resolved to a concrete id.
func CategoryID(id int) CategoryRef {
	return CategoryRef{kind: categoryRefID, id: id}
}

// CategoryName returns an unresolved reference by category name.
func CategoryName(name string) CategoryRef {
	return CategoryRef{kind: categoryRefName, name: name}
}

// ID reports the resolved category id, if this reference carries one.
func (r CategoryRef) ID() (int, bool) {
	return r.id, r.kind == categoryRefID
}

// Name reports the unresolved category name, if this reference carries one.
func (r CategoryRef) Name() (string, bool) {
	return r.name, r.kind == categoryRefName
}

// IsZero reports whether the reference is absent.
func (r CategoryRef) IsZero() bool {
	return r.kind == categoryRefNone
}
