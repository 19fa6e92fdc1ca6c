package expense

// Category is one label of the fixed expense vocabulary.
type Category string

const (
	CategoryFood           Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryBills          Category = "Bills & Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryTravel         Category = "Travel"
	CategoryEducation      Category = "Education"
	CategoryBusiness       Category = "Business"
	CategoryOther          Category = "Other"
)

// FallbackIcon is shown for categories outside the vocabulary.
const FallbackIcon = "📝"

// AllCategories is the filter value that matches every category.
const AllCategories = "All"

// Categories lists the vocabulary in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryTravel,
	CategoryEducation,
	CategoryBusiness,
	CategoryOther,
}

var icons = map[Category]string{
	CategoryFood:           "🍽️",
	CategoryTransportation: "🚗",
	CategoryShopping:       "🛍️",
	CategoryEntertainment:  "🎬",
	CategoryBills:          "⚡",
	CategoryHealthcare:     "🏥",
	CategoryTravel:         "✈️",
	CategoryEducation:      "📚",
	CategoryBusiness:       "💼",
	CategoryOther:          FallbackIcon,
}

// Valid reports whether c is an exact member of the vocabulary.
func (c Category) Valid() bool {
	_, ok := icons[c]
	return ok
}

// Icon returns the display glyph for c.
func (c Category) Icon() string {
	if icon, ok := icons[c]; ok {
		return icon
	}

	return FallbackIcon
}

// ParseCategory maps s onto the vocabulary, coercing anything unknown to Other.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}

	return CategoryOther
}
