package content

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Memory implements Source over in-process slices. It backs tests and small
// single-process deployments.
type Memory struct {
	ItemList       []Item
	CollectionList []Collection
	ItemTypeList   []ItemType
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Items(ctx context.Context, q Query) ([]Item, int, error) {
	var matched []Item
	for _, it := range m.ItemList {
		if !it.Public || !m.matches(it, q) {
			continue
		}
		matched = append(matched, it)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if q.Limit > 0 {
		if q.Offset >= total {
			return nil, total, nil
		}
		end := q.Offset + q.Limit
		if end > total {
			end = total
		}
		matched = matched[q.Offset:end]
	}
	return matched, total, nil
}

func (m *Memory) matches(it Item, q Query) bool {
	if q.Collection != nil && (it.CollectionID == nil || *it.CollectionID != *q.Collection) {
		return false
	}
	if q.ItemType != nil && (it.ItemTypeID == nil || *it.ItemTypeID != *q.ItemType) {
		return false
	}
	if len(q.TypeValues) > 0 {
		found := false
		for _, want := range q.TypeValues {
			for _, have := range it.Elements["type"] {
				if have == want {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if q.From != nil && it.Modified.Before(*q.From) && it.Added.Before(*q.From) {
		return false
	}
	if q.Until != nil && !it.Modified.Before(*q.Until) && !it.Added.Before(*q.Until) {
		return false
	}
	return true
}

func (m *Memory) Item(ctx context.Context, id int64) (*Item, error) {
	for _, it := range m.ItemList {
		if it.ID == id && it.Public {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) EarliestDate(ctx context.Context) (time.Time, error) {
	var earliest time.Time
	for _, it := range m.ItemList {
		if !it.Public {
			continue
		}
		if earliest.IsZero() || it.Added.Before(earliest) {
			earliest = it.Added
		}
	}
	return earliest, nil
}

func (m *Memory) Collections(ctx context.Context, onlyWithItems bool) ([]Collection, error) {
	var collections []Collection
	for _, c := range m.CollectionList {
		if !c.Public {
			continue
		}
		if onlyWithItems && !m.collectionHasItems(c.ID) {
			continue
		}
		collections = append(collections, c)
	}
	return collections, nil
}

func (m *Memory) collectionHasItems(id int64) bool {
	for _, it := range m.ItemList {
		if it.Public && it.CollectionID != nil && *it.CollectionID == id {
			return true
		}
	}
	return false
}

func (m *Memory) CollectionByIdentifier(ctx context.Context, identifier string) (*Collection, error) {
	if identifier == "" {
		return nil, nil
	}
	for _, c := range m.CollectionList {
		if c.Public && c.Identifier == identifier {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) CollectionByTitle(ctx context.Context, title string) (*Collection, error) {
	if title == "" {
		return nil, nil
	}
	for _, c := range m.CollectionList {
		if c.Public && c.Title == title {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) ItemTypes(ctx context.Context) ([]ItemType, error) {
	var types []ItemType
	for _, t := range m.ItemTypeList {
		if m.itemTypeInUse(t.ID) {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

func (m *Memory) itemTypeInUse(id int64) bool {
	for _, it := range m.ItemList {
		if it.Public && it.ItemTypeID != nil && *it.ItemTypeID == id {
			return true
		}
	}
	return false
}

func (m *Memory) ItemTypeByName(ctx context.Context, name string) (*ItemType, error) {
	for _, t := range m.ItemTypeList {
		if t.Name == name {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) DistinctTypeValues(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var values []string
	for _, it := range m.ItemList {
		if !it.Public {
			continue
		}
		for _, v := range it.Elements["type"] {
			if len(v) > maxSetValueLen || strings.ContainsAny(v, ":_") || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values, nil
}
