package model

// CategoryID is the stable internal identifier of a product category.
type CategoryID string

const (
	CategoryTop       CategoryID = "top"
	CategoryOuter     CategoryID = "outer"
	CategoryPants     CategoryID = "pants"
	CategorySneakers  CategoryID = "sneakers"
	CategoryBag       CategoryID = "bag"
	CategoryHat       CategoryID = "hat"
	CategorySocks     CategoryID = "socks"
	CategoryAccessory CategoryID = "accessory"
)

// Category pairs a stable identifier with its display label. Labels are what
// clients see and send; identifiers never leave the process.
type Category struct {
	ID    CategoryID `json:"id"`
	Label string     `json:"label"`
}

// categories is the closed catalog. Declaration order is the output order of
// every query; it never changes at runtime.
var categories = []Category{
	{CategoryTop, "상의"},
	{CategoryOuter, "아우터"},
	{CategoryPants, "바지"},
	{CategorySneakers, "스니커즈"},
	{CategoryBag, "가방"},
	{CategoryHat, "모자"},
	{CategorySocks, "양말"},
	{CategoryAccessory, "액세서리"},
}

var categoryByLabel = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Label] = c
	}
	return m
}()

// Categories returns the fixed category catalog in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByLabel resolves a display label to its category. The match is
// exact and case-sensitive; anything else fails with ErrUnknownCategory.
func CategoryByLabel(label string) (Category, error) {
	c, ok := categoryByLabel[label]
	if !ok {
		return Category{}, &UnknownCategoryError{Label: label}
	}
	return c, nil
}
