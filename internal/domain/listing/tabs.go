package listing

// Tab identifies a detail-page section
type Tab string

const (
	TabAbout     Tab = "about"
	TabAmenities Tab = "amenities"
	TabPackages  Tab = "packages"
	TabReviews   Tab = "reviews"
	TabGallery   Tab = "gallery"
	TabRooms     Tab = "rooms"
	TabMenu      Tab = "menu"
	TabVehicles  Tab = "vehicles"
)

// TabSet is the fixed, ordered tab collection for a category with a
// single selected tab.
type TabSet struct {
	tabs     []Tab
	selected Tab
}

var categoryTabs = map[Category][]Tab{
	CategoryMarriageGarden: {TabAbout, TabAmenities, TabPackages, TabMenu, TabGallery, TabReviews},
	CategoryWeddingPlanner: {TabAbout, TabPackages, TabGallery, TabReviews},
	CategoryPhotographer:   {TabAbout, TabPackages, TabGallery, TabReviews},
	CategoryDJ:             {TabAbout, TabPackages, TabGallery, TabReviews},
	CategoryTentHouse:      {TabAbout, TabPackages, TabGallery, TabReviews},
	CategoryFlowerVendor:   {TabAbout, TabPackages, TabGallery, TabReviews},
	CategoryCarRental:      {TabAbout, TabVehicles, TabPackages, TabGallery, TabReviews},
	CategoryPGHostel:       {TabAbout, TabAmenities, TabRooms, TabGallery, TabReviews},
}

// TabsFor returns the tab set for a category, selected on the first tab
func TabsFor(category Category) TabSet {
	tabs, ok := categoryTabs[category]
	if !ok {
		tabs = []Tab{TabAbout, TabReviews}
	}
	return TabSet{tabs: tabs, selected: tabs[0]}
}

// Tabs returns the ordered tabs
func (t TabSet) Tabs() []Tab {
	out := make([]Tab, len(t.tabs))
	copy(out, t.tabs)
	return out
}

// Selected returns the currently selected tab
func (t TabSet) Selected() Tab {
	return t.selected
}

// Contains reports whether the tab belongs to this set
func (t TabSet) Contains(tab Tab) bool {
	for _, v := range t.tabs {
		if v == tab {
			return true
		}
	}
	return false
}

// Select returns a set with the given tab selected. Unknown tabs leave
// the selection unchanged and report false. Selecting the already
// selected tab is a no-op.
func (t TabSet) Select(tab Tab) (TabSet, bool) {
	if !t.Contains(tab) {
		return t, false
	}
	t.selected = tab
	return t, true
}
