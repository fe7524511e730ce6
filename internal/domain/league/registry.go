package league

import "strings"

// Filter mirrors the query parameters of the fixtures feed. League wins over
// Region and Category when set.
type Filter struct {
	Region   string
	Category string
	League   int
}

// Registry is an immutable flattened view of the hierarchy. Safe for
// concurrent use.
type Registry struct {
	regions []Region
	byID    map[int]League
	order   []int
	index   map[string]int
}

// NewRegistry copies regions and stamps each league with its region and
// category keys. A league id listed twice keeps its first position.
func NewRegistry(regions []Region) *Registry {
	r := &Registry{
		regions: make([]Region, 0, len(regions)),
		byID:    make(map[int]League),
		index:   make(map[string]int, len(regions)),
	}

	for _, region := range regions {
		copied := Region{Key: region.Key, Name: region.Name, Categories: make([]Category, 0, len(region.Categories))}
		for _, category := range region.Categories {
			cat := Category{Key: category.Key, Name: category.Name, Leagues: make([]League, 0, len(category.Leagues))}
			for _, lg := range category.Leagues {
				lg.Region = region.Key
				lg.Category = category.Key
				cat.Leagues = append(cat.Leagues, lg)
				if _, exists := r.byID[lg.ID]; exists {
					continue
				}
				r.byID[lg.ID] = lg
				r.order = append(r.order, lg.ID)
			}
			copied.Categories = append(copied.Categories, cat)
		}
		r.index[region.Key] = len(r.regions)
		r.regions = append(r.regions, copied)
	}

	return r
}

func Default() *Registry {
	return NewRegistry(DefaultRegions())
}

func (r *Registry) Lookup(id int) (League, bool) {
	lg, ok := r.byID[id]
	return lg, ok
}

// Name returns the display name, or "" for leagues not followed.
func (r *Registry) Name(id int) string {
	return r.byID[id].Name
}

func (r *Registry) Contains(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs lists every followed league in registry order.
func (r *Registry) IDs() []int {
	out := make([]int, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Regions returns a deep copy of the hierarchy.
func (r *Registry) Regions() []Region {
	out := make([]Region, len(r.regions))
	for i, region := range r.regions {
		out[i] = Region{Key: region.Key, Name: region.Name, Categories: make([]Category, len(region.Categories))}
		for j, category := range region.Categories {
			leagues := make([]League, len(category.Leagues))
			copy(leagues, category.Leagues)
			out[i].Categories[j] = Category{Key: category.Key, Name: category.Name, Leagues: leagues}
		}
	}
	return out
}

func (r *Registry) region(key string) (Region, bool) {
	i, ok := r.index[key]
	if !ok {
		return Region{}, false
	}
	return r.regions[i], true
}

// Select resolves a filter to the set of league ids to show. An explicit
// league is returned as is, even when it is not followed; callers still
// intersect with Contains. An unknown category inside a known region selects
// nothing. An unknown region behaves like RegionAll.
func (r *Registry) Select(f Filter) Selection {
	if f.League != 0 {
		return newSelection([]int{f.League})
	}

	regionKey := strings.TrimSpace(f.Region)
	region, ok := r.region(regionKey)
	if regionKey == "" || regionKey == RegionAll || !ok {
		return newSelection(r.IDs())
	}

	categoryKey := strings.TrimSpace(f.Category)
	var ids []int
	for _, category := range region.Categories {
		if categoryKey != "" && category.Key != categoryKey {
			continue
		}
		for _, lg := range category.Leagues {
			ids = append(ids, lg.ID)
		}
	}
	return newSelection(ids)
}

// Selection is the outcome of Registry.Select.
type Selection struct {
	ids []int
	set map[int]struct{}
}

func newSelection(ids []int) Selection {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Selection{ids: ids, set: set}
}

func (s Selection) Contains(id int) bool {
	_, ok := s.set[id]
	return ok
}

func (s Selection) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}
