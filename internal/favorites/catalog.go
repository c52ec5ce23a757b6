// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package favorites

// locations is the fixed set of selectable location names, in display order.
var locations = [...]string{
	"花田民居", "村口集市", "染织工坊", "落石谷", "悠悠草坡",
	"虫鸣花坡", "绿野活动区", "绿野码头", "女王行宫遗迹", "边境哨所",
	"溪声林地", "巨树河谷", "陨愿山岭", "曙光山地", "镇郊林区",
	"湖畔街区", "大许愿树广场", "栖愿遗迹", "福鸣瀑布", "麦浪农场",
	"欢乐市集", "乘风磨坊", "涟漪庄园", "星空钓场", "石之冠",
	"丰饶古村", "呜呜车站",
}

// Catalog is an immutable, 1-based list of location names.
type Catalog struct {
	names []string
}

// DefaultCatalog returns the compiled-in location catalog.
func DefaultCatalog() Catalog {
	return Catalog{names: locations[:]}
}

// NewCatalog builds a catalog from names. The slice is copied.
func NewCatalog(names ...string) Catalog {
	c := make([]string, len(names))
	copy(c, names)
	return Catalog{names: c}
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.names)
}

// At returns the name at the 1-based position.
func (c Catalog) At(position int) (string, bool) {
	if position < 1 || position > len(c.names) {
		return "", false
	}
	return c.names[position-1], true
}

// Names returns a copy of all entries in order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Has reports whether name is part of the catalog.
func (c Catalog) Has(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}
