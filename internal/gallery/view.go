package gallery

import (
	"github.com/vbonduro/folio/internal/domain"
)

// AllLabel is the text of the filter button that clears the filter.
const AllLabel = "All"

// Filter returns the works in categoryID, in order, or every work when
// categoryID is domain.NoCategory.
func Filter(works []domain.Work, categoryID int64) []domain.Work {
	out := make([]domain.Work, 0, len(works))
	for _, w := range works {
		if categoryID == domain.NoCategory || w.CategoryID == categoryID {
			out = append(out, w)
		}
	}
	return out
}

type FilterButton struct {
	CategoryID int64
	Label      string
	Active     bool
}

// Filters builds the "All" button followed by one button per category.
// Exactly one button is active: the one for active, or "All" when active
// matches no category.
func Filters(categories []domain.Category, active int64) []FilterButton {
	buttons := make([]FilterButton, 0, len(categories)+1)
	buttons = append(buttons, FilterButton{CategoryID: domain.NoCategory, Label: AllLabel})

	matched := false
	for _, cat := range categories {
		isActive := cat.ID == active && !matched
		matched = matched || isActive
		buttons = append(buttons, FilterButton{CategoryID: cat.ID, Label: cat.Name, Active: isActive})
	}
	if !matched {
		buttons[0].Active = true
	}
	return buttons
}

// View is everything the gallery templates need, derived from one snapshot.
type View struct {
	Works       []domain.Work
	Filters     []FilterButton
	Categories  []domain.Category
	ActiveID    int64
	Admin       bool
	ShowFilters bool
}

// NewView derives the gallery view for a filter and visitor. Admins see every
// work with delete controls and no filter bar.
func NewView(snap Snapshot, categoryID int64, admin bool) View {
	if admin {
		categoryID = domain.NoCategory
	}
	return View{
		Works:       Filter(snap.Works, categoryID),
		Filters:     Filters(snap.Categories, categoryID),
		Categories:  snap.Categories,
		ActiveID:    categoryID,
		Admin:       admin,
		ShowFilters: !admin,
	}
}
