// Package fields provides the ordered, leveled tag/value store shared by all
// format readers and writers.
package fields

import (
	"errors"
	"strings"
)

// Levels. Level is a flat scope classifier, not tree depth.
const (
	// LevelAny matches every level in lookups. It is never stored.
	LevelAny = -1
	// LevelOriginal marks fields describing a translation or variant of the main record.
	LevelOriginal = -2

	LevelMain   = 0
	LevelHost   = 1
	LevelSeries = 2
)

// ErrAllocation is returned when a field cannot be stored.
var ErrAllocation = errors.New("fields: allocation failure")

// Field is a single tag/value pair.
type Field struct {
	Tag   string
	Value string
	Level int
	Used  bool
}

// Fields is an append-ordered multimap of fields. Insertion order is
// preserved and determines output order. A Fields value belongs to a
// single record and must not be shared between goroutines.
type Fields struct {
	items []Field
	limit int
}

// Option configures a Fields store.
type Option func(*Fields)

// WithLimit caps the number of fields the store will hold. Insertions
// beyond the cap fail with ErrAllocation. A limit of zero means unbounded.
func WithLimit(n int) Option {
	return func(f *Fields) {
		f.limit = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Fields {
	f := &Fields{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Add appends a field. An identical tag/value/level triple already in the
// store is not stored again; its index is returned instead.
func (f *Fields) Add(tag, value string, level int) (int, error) {
	for i, it := range f.items {
		if it.Level == level && it.Tag == tag && it.Value == value {
			return i, nil
		}
	}
	return f.AddDup(tag, value, level)
}

// AddDup appends a field even when an identical one exists. Person fields
// and multi-valued notes use this.
func (f *Fields) AddDup(tag, value string, level int) (int, error) {
	if f.limit > 0 && len(f.items) >= f.limit {
		return -1, ErrAllocation
	}
	f.items = append(f.items, Field{Tag: tag, Value: value, Level: level})
	return len(f.items) - 1, nil
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.items)
}

// At returns a copy of the field at index i.
func (f *Fields) At(i int) Field {
	return f.items[i]
}

// Tag returns the tag of field i.
func (f *Fields) Tag(i int) string {
	return f.items[i].Tag
}

// Value returns the value of field i.
func (f *Fields) Value(i int) string {
	return f.items[i].Value
}

// Level returns the level of field i.
func (f *Fields) Level(i int) int {
	return f.items[i].Level
}

// SetValue replaces the value of field i.
func (f *Fields) SetValue(i int, value string) {
	f.items[i].Value = value
}

// MarkUsed records that field i has been consumed.
func (f *Fields) MarkUsed(i int) {
	if i >= 0 && i < len(f.items) {
		f.items[i].Used = true
	}
}

// IsUsed reports whether field i has been consumed.
func (f *Fields) IsUsed(i int) bool {
	return f.items[i].Used
}

// Unused returns the indexes of fields no converter step consumed.
func (f *Fields) Unused() []int {
	var out []int
	for i, it := range f.items {
		if !it.Used {
			out = append(out, i)
		}
	}
	return out
}

// Match reports whether field i has the given tag (case-insensitive) at the
// given level.
func (f *Fields) Match(i int, tag string, level int) bool {
	it := f.items[i]
	if level != LevelAny && it.Level != level {
		return false
	}
	return strings.EqualFold(it.Tag, tag)
}

// Find returns the index of the first field matching tag at level, or -1.
func (f *Fields) Find(tag string, level int) int {
	for i := range f.items {
		if f.Match(i, tag, level) {
			return i
		}
	}
	return -1
}

// FindAll returns the indexes of every field matching tag at level.
func (f *Fields) FindAll(tag string, level int) []int {
	var out []int
	for i := range f.items {
		if f.Match(i, tag, level) {
			out = append(out, i)
		}
	}
	return out
}

// FindFirst returns the index of the first field, in insertion order, whose
// tag is any of tags, or -1.
func (f *Fields) FindFirst(level int, tags ...string) int {
	for i := range f.items {
		for _, tag := range tags {
			if f.Match(i, tag, level) {
				return i
			}
		}
	}
	return -1
}

// Lookup returns the value of the first field matching tag at level and
// marks it used.
func (f *Fields) Lookup(tag string, level int) (string, bool) {
	n := f.Find(tag, level)
	if n == -1 {
		return "", false
	}
	f.MarkUsed(n)
	return f.items[n].Value, true
}

// Has reports whether a field with tag exists at level.
func (f *Fields) Has(tag string, level int) bool {
	return f.Find(tag, level) != -1
}

// MaxLevel returns the highest non-negative level present.
func (f *Fields) MaxLevel() int {
	highest := 0
	for _, it := range f.items {
		if it.Level > highest {
			highest = it.Level
		}
	}
	return highest
}
