// Package league holds the static region, category and league hierarchy the
// service follows. Fixtures outside it are never shown.
package league

type League struct {
	ID       int
	Key      string
	Name     string
	Region   string
	Category string
}

type Category struct {
	Key     string
	Name    string
	Leagues []League
}

type Region struct {
	Key        string
	Name       string
	Categories []Category
}

// RegionAll selects every followed league.
const RegionAll = "all"

// DefaultRegions is the hierarchy served in production.
func DefaultRegions() []Region {
	return []Region{
		{
			Key:  "europe",
			Name: "Europe",
			Categories: []Category{
				{Key: "major", Name: "Top 5", Leagues: []League{
					{ID: 39, Key: "premier_league", Name: "Premier League"},
					{ID: 140, Key: "la_liga", Name: "La Liga"},
					{ID: 78, Key: "bundesliga", Name: "Bundesliga"},
					{ID: 135, Key: "serie_a", Name: "Serie A"},
					{ID: 61, Key: "ligue_1", Name: "Ligue 1"},
				}},
				{Key: "european", Name: "European Cups", Leagues: []League{
					{ID: 2, Key: "champions_league", Name: "Champions League"},
					{ID: 3, Key: "europa_league", Name: "Europa League"},
				}},
				{Key: "other", Name: "Other Leagues", Leagues: []League{
					{ID: 88, Key: "eredivisie", Name: "Eredivisie"},
					{ID: 94, Key: "primeira_liga", Name: "Primeira Liga"},
					{ID: 203, Key: "super_lig", Name: "Super Lig"},
				}},
			},
		},
		{
			Key:  "americas",
			Name: "Americas",
			Categories: []Category{
				{Key: "north", Name: "North America", Leagues: []League{
					{ID: 253, Key: "mls", Name: "MLS"},
					{ID: 262, Key: "liga_mx", Name: "Liga MX"},
				}},
				{Key: "south", Name: "South America", Leagues: []League{
					{ID: 71, Key: "brasileirao", Name: "Brasileirão"},
					{ID: 128, Key: "primera_division", Name: "Primera División"},
				}},
			},
		},
		{
			Key:  "asia",
			Name: "Asia",
			Categories: []Category{
				{Key: "east", Name: "East Asia", Leagues: []League{
					{ID: 98, Key: "j1_league", Name: "J1 League"},
					{ID: 292, Key: "k_league", Name: "K League 1"},
				}},
				{Key: "west", Name: "Middle East", Leagues: []League{
					{ID: 307, Key: "saudi_league", Name: "Saudi Pro League"},
				}},
			},
		},
	}
}
