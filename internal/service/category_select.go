package service

import "github.com/herevemarket/admin_console/internal/models"

const (
	categoryPlaceholder = "Kategori Seç"
	allCategoriesLabel  = "Tüm Kategoriler"
)

// SelectOption is one <option> of a rendered select.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
	Disabled bool
}

// CategorySelect builds a product category multi-select. Active categories
// are selectable. Names in selected that are not active stay selected but are
// disabled, so they show without being offered as new choices.
func CategorySelect(categories []models.Category, selected []string) []SelectOption {
	preserved := NormalizeCategories(selected)
	want := make(map[string]bool, len(preserved))
	for _, name := range preserved {
		want[name] = true
	}

	options := []SelectOption{{
		Label:    categoryPlaceholder,
		Disabled: true,
		Selected: len(preserved) == 0,
	}}

	active := make(map[string]bool)
	for _, c := range categories {
		if !c.IsActive || c.Name == "" || active[c.Name] {
			continue
		}
		active[c.Name] = true
		options = append(options, SelectOption{Value: c.Name, Label: c.Name, Selected: want[c.Name]})
	}

	for _, name := range preserved {
		if active[name] {
			continue
		}
		active[name] = true
		options = append(options, SelectOption{Value: name, Label: name, Selected: true, Disabled: true})
	}
	return options
}

// FilterSelect builds the category filter dropdown: "all" followed by every
// category, active or not.
func FilterSelect(categories []models.Category, current string) []SelectOption {
	options := []SelectOption{{Label: allCategoriesLabel, Selected: current == ""}}
	for _, c := range categories {
		options = append(options, SelectOption{Value: c.Name, Label: c.Name, Selected: c.Name == current})
	}
	return options
}

// resolveFilter keeps previous iff it names one of categories.
func resolveFilter(categories []models.Category, previous string) string {
	for _, c := range categories {
		if c.Name == previous {
			return previous
		}
	}
	return ""
}
