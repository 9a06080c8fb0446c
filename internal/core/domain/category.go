package domain

// Category labels a record can carry.
const (
	CategoryGrass    = "Grass"
	CategoryFire     = "Fire"
	CategoryWater    = "Water"
	CategoryBug      = "Bug"
	CategoryNormal   = "Normal"
	CategoryElectric = "Electric"
	CategoryPoison   = "Poison"
	CategoryFairy    = "Fairy"
	CategoryFlying   = "Flying"
	CategoryFighting = "Fighting"
	CategoryPsychic  = "Psychic"
)

// categories is the fixed, ordered label set shown by forms.
var categories = []string{
	CategoryGrass,
	CategoryFire,
	CategoryWater,
	CategoryBug,
	CategoryNormal,
	CategoryElectric,
	CategoryPoison,
	CategoryFairy,
	CategoryFlying,
	CategoryFighting,
	CategoryPsychic,
}

// categoryColors maps each label to its badge colour.
var categoryColors = map[string]string{
	CategoryGrass:    "#81C784",
	CategoryFire:     "#E57373",
	CategoryWater:    "#64B5F6",
	CategoryBug:      "#A1887F",
	CategoryNormal:   "#BDBDBD",
	CategoryElectric: "#FFF176",
	CategoryPoison:   "#BA68C8",
	CategoryFairy:    "#F8BBD0",
	CategoryFlying:   "#4DB6AC",
	CategoryFighting: "#FFB74D",
	CategoryPsychic:  "#9575CD",
}

// defaultCategoryColor is used for labels outside the fixed set.
const defaultCategoryColor = "#9E9E9E"

// Categories returns the ordered category labels.
// The returned slice is a copy and may be modified.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsCategory returns true if the label belongs to the fixed set.
func IsCategory(label string) bool {
	_, ok := categoryColors[label]
	return ok
}

// CategoryColor returns the badge colour for a label.
func CategoryColor(label string) string {
	if c, ok := categoryColors[label]; ok {
		return c
	}
	return defaultCategoryColor
}
