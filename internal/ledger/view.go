package ledger

import (
	"sort"

	"github.com/houseledger/backend/internal/models"
)

// FilterAll matches every value of a filter dimension. An empty
// selection is treated the same way.
const FilterAll = "All"

func matches(selection, value string) bool {
	return selection == "" || selection == FilterAll || selection == value
}

// Materialize produces the filtered subset of entries and its three
// aggregate sums. Filters compose by conjunction with exact string
// matching. Pure function: no side effects, no remote calls.
func Materialize(entries []models.Entry, f models.Filter) models.View {
	view := models.View{Entries: []models.Entry{}}
	for _, e := range entries {
		if matches(f.Roommate, e.Roommate) && matches(f.Month, e.Month) && matches(f.Status, e.Status) {
			view.Entries = append(view.Entries, e)
		}
	}

	for _, e := range view.Entries {
		view.Summary.TotalAll = view.Summary.TotalAll.Add(e.Amount)
		switch e.Status {
		case models.StatusPaid:
			view.Summary.TotalPaid = view.Summary.TotalPaid.Add(e.Amount)
		case models.StatusUnpaid:
			view.Summary.TotalUnpaid = view.Summary.TotalUnpaid.Add(e.Amount)
		}
	}

	// Filter options come from the unfiltered set so narrowing one
	// dimension never hides the others' choices.
	view.Roommates, view.Months = Options(entries)
	return view
}

// Options returns the distinct roommates and months present in the
// sheet, sorted, with blanks dropped. Used to populate the filter
// sidebar.
func Options(entries []models.Entry) (roommates, months []string) {
	seenRoommates := make(map[string]bool)
	seenMonths := make(map[string]bool)
	for _, e := range entries {
		if e.Roommate != "" && !seenRoommates[e.Roommate] {
			seenRoommates[e.Roommate] = true
			roommates = append(roommates, e.Roommate)
		}
		if e.Month != "" && !seenMonths[e.Month] {
			seenMonths[e.Month] = true
			months = append(months, e.Month)
		}
	}
	sort.Strings(roommates)
	sort.Strings(months)
	return roommates, months
}
