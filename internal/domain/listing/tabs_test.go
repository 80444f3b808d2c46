package listing

import "testing"

func TestTabsPerCategory(t *testing.T) {
	for _, category := range ValidCategories() {
		ts := TabsFor(category)
		if len(ts.Tabs()) == 0 {
			t.Errorf("category %s has no tabs", category)
		}
		if ts.Selected() != ts.Tabs()[0] {
			t.Errorf("category %s does not start on first tab", category)
		}
		if !ts.Contains(TabReviews) {
			t.Errorf("category %s missing reviews tab", category)
		}
	}
}

func TestTabSelect(t *testing.T) {
	ts := TabsFor(CategoryMarriageGarden)

	selected, ok := ts.Select(TabPackages)
	if !ok {
		t.Fatal("selecting a known tab failed")
	}
	if selected.Selected() != TabPackages {
		t.Errorf("expected packages selected, got %s", selected.Selected())
	}
}

func TestTabSelectUnknownTab(t *testing.T) {
	ts := TabsFor(CategoryPhotographer)

	// Rooms belongs to pg_hostel, not photographer
	after, ok := ts.Select(TabRooms)
	if ok {
		t.Error("unknown tab was accepted")
	}
	if after.Selected() != ts.Selected() {
		t.Error("rejected selection changed state")
	}
}

func TestTabSelectIdempotent(t *testing.T) {
	ts := TabsFor(CategoryMarriageGarden)

	once, ok := ts.Select(TabAmenities)
	if !ok {
		t.Fatal("first select failed")
	}
	twice, ok := once.Select(TabAmenities)
	if !ok {
		t.Fatal("repeated select failed")
	}
	if twice.Selected() != once.Selected() {
		t.Error("repeated select changed state")
	}
}

func TestCategoryVariants(t *testing.T) {
	if !TabsFor(CategoryPGHostel).Contains(TabRooms) {
		t.Error("pg_hostel missing rooms tab")
	}
	if !TabsFor(CategoryCarRental).Contains(TabVehicles) {
		t.Error("car_rental missing vehicles tab")
	}
	if TabsFor(CategoryDJ).Contains(TabRooms) {
		t.Error("dj should not have rooms tab")
	}
}
