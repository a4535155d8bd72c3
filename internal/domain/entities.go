package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ColumnType identifies the scalar type carried by a metadata column.
type ColumnType string

const (
	ColumnBool   ColumnType = "boolean"
	ColumnInt    ColumnType = "integer"
	ColumnFloat  ColumnType = "float"
	ColumnString ColumnType = "categorical"
)

// Column is a tagged variant holding one ordered sequence of scalar
// metadata values. Exactly one of the value slices is set.
type Column struct {
	Bools   []bool
	Ints    []int64
	Floats  []float64
	Strings []string
}

func BoolColumn(values []bool) Column     { return Column{Bools: values} }
func IntColumn(values []int64) Column     { return Column{Ints: values} }
func FloatColumn(values []float64) Column { return Column{Floats: values} }
func StringColumn(values []string) Column { return Column{Strings: values} }

func (c Column) Type() ColumnType {
	switch {
	case c.Bools != nil:
		return ColumnBool
	case c.Ints != nil:
		return ColumnInt
	case c.Floats != nil:
		return ColumnFloat
	default:
		return ColumnString
	}
}

func (c Column) Len() int {
	switch c.Type() {
	case ColumnBool:
		return len(c.Bools)
	case ColumnInt:
		return len(c.Ints)
	case ColumnFloat:
		return len(c.Floats)
	default:
		return len(c.Strings)
	}
}

// Value returns the i-th value formatted as a string label.
func (c Column) Value(i int) string {
	switch c.Type() {
	case ColumnBool:
		return strconv.FormatBool(c.Bools[i])
	case ColumnInt:
		return strconv.FormatInt(c.Ints[i], 10)
	case ColumnFloat:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	default:
		return c.Strings[i]
	}
}

// Group is the set of item indices sharing one distinct column value.
type Group struct {
	Value   string
	Indices []int
}

// Groups partitions item indices by distinct value. The returned groups
// are in canonical order: ascending by native value (false before true
// for booleans, numeric order for numbers, lexicographic for strings),
// so repeated calls over the same column are stable.
func (c Column) Groups() []Group {
	n := c.Len()
	byValue := make(map[string][]int, 8)
	labels := make([]string, 0, 8)
	keys := make([]sortKey, 0, 8)
	for i := 0; i < n; i++ {
		v := c.Value(i)
		if _, ok := byValue[v]; !ok {
			labels = append(labels, v)
			keys = append(keys, c.sortKeyAt(i))
		}
		byValue[v] = append(byValue[v], i)
	}
	order := make([]int, len(labels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]].less(keys[order[b]]) })

	groups := make([]Group, 0, len(labels))
	for _, i := range order {
		groups = append(groups, Group{Value: labels[i], Indices: byValue[labels[i]]})
	}
	return groups
}

type sortKey struct {
	num float64
	str string
	typ ColumnType
}

func (c Column) sortKeyAt(i int) sortKey {
	switch c.Type() {
	case ColumnBool:
		if c.Bools[i] {
			return sortKey{num: 1, typ: ColumnBool}
		}
		return sortKey{num: 0, typ: ColumnBool}
	case ColumnInt:
		return sortKey{num: float64(c.Ints[i]), typ: ColumnInt}
	case ColumnFloat:
		return sortKey{num: c.Floats[i], typ: ColumnFloat}
	default:
		return sortKey{str: c.Strings[i], typ: ColumnString}
	}
}

func (k sortKey) less(o sortKey) bool {
	if k.typ == ColumnString {
		return k.str < o.str
	}
	return k.num < o.num
}

// Metadata maps field names to equal-length columns.
type Metadata map[string]Column

// Fields returns the field names in sorted order.
func (m Metadata) Fields() []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Dataset is one loaded embedding collection. Embeddings is nil for
// metadata-only datasets; EpisodeIDs always carries the item count.
type Dataset struct {
	Name        string
	Description string
	EpisodeIDs  []string
	Embeddings  [][]float32
	Metadata    Metadata
}

func (d *Dataset) Count() int { return len(d.EpisodeIDs) }

func (d *Dataset) HasEmbeddings() bool { return len(d.Embeddings) > 0 }

func (d *Dataset) Dimension() int {
	if !d.HasEmbeddings() {
		return 0
	}
	return len(d.Embeddings[0])
}

// Project is a registered dataset with access control and expiry.
type Project struct {
	ID           string
	AccessToken  string
	DatasetPath  string
	DatasetName  string
	Description  string
	EpisodeCount int
	Dimension    int
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (p *Project) Expired(now time.Time) bool { return now.After(p.ExpiresAt) }

// Selection is a persisted sampling result.
type Selection struct {
	ID        uint64
	ProjectID string
	Name      string
	Strategy  string
	NSamples  int
	Indices   []int
	Coverage  float64
	CreatedAt time.Time
}

func (s *Selection) String() string {
	return fmt.Sprintf("selection %d (%s, %s, %d indices, coverage %.3f)",
		s.ID, s.Name, s.Strategy, len(s.Indices), s.Coverage)
}
