package testutil

import "github.com/Veraticus/gradebook/internal/model"

// StarterItems returns nine items in three evolution families across two tiers.
func StarterItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Bulbasaur", Tier: 1, Categories: []string{"Grass", "Poison"}},
		{ID: 2, Name: "Ivysaur", Tier: 1, Categories: []string{"Grass", "Poison"}},
		{ID: 3, Name: "Venusaur", Tier: 1, Categories: []string{"Grass", "Poison"}},
		{ID: 4, Name: "Charmander", Tier: 1, Categories: []string{"Fire"}},
		{ID: 5, Name: "Charmeleon", Tier: 1, Categories: []string{"Fire"}},
		{ID: 6, Name: "Charizard", Tier: 1, Categories: []string{"Fire", "Flying"}},
		{ID: 7, Name: "Chikorita", Tier: 2, Categories: []string{"Grass"}},
		{ID: 8, Name: "Cyndaquil", Tier: 2, Categories: []string{"Fire"}},
		{ID: 9, Name: "Totodile", Tier: 2, Categories: []string{"Water"}},
	}
}

// StarterGroups partitions StarterItems into four groups.
func StarterGroups() []model.Group {
	return []model.Group{
		{Index: 0, ItemIDs: []int{1, 2, 3}},
		{Index: 1, ItemIDs: []int{4, 5, 6}},
		{Index: 2, ItemIDs: []int{7}},
		{Index: 3, ItemIDs: []int{8, 9}},
	}
}

// TriadItems returns the three-item catalog A(tier 1, Fire), B(tier 2, Water), C(tier 1, Water).
func TriadItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "A", Tier: 1, Categories: []string{"Fire"}},
		{ID: 2, Name: "B", Tier: 2, Categories: []string{"Water"}},
		{ID: 3, Name: "C", Tier: 1, Categories: []string{"Water"}},
	}
}

// TriadGroups puts every TriadItems entry in its own group.
func TriadGroups() []model.Group {
	return []model.Group{
		{Index: 0, ItemIDs: []int{1}},
		{Index: 1, ItemIDs: []int{2}},
		{Index: 2, ItemIDs: []int{3}},
	}
}
