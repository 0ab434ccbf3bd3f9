package meteo

// conditionClasses maps each semantic condition category to the numeric icon
// codes the forecast feed uses for it. Categories without codes exist so the
// category set stays complete.
var conditionClasses = map[string][]int{
	"clear-night":     {101},
	"cloudy":          {5, 35, 105, 135},
	"fog":             {27, 28, 127, 128},
	"hail":            {},
	"lightning":       {12, 112},
	"lightning-rainy": {13, 23, 24, 25, 32, 113, 123, 124, 125, 132},
	"partlycloudy":    {2, 3, 4, 102, 103, 104},
	"pouring":         {20, 120},
	"rainy":           {6, 9, 14, 17, 29, 33, 106, 109, 114, 117, 129, 133},
	"snowy":           {8, 11, 16, 19, 22, 30, 34, 108, 111, 116, 119, 122, 130, 134},
	"snowy-rainy":     {7, 10, 15, 18, 21, 31, 107, 110, 115, 118, 121, 131},
	"sunny":           {1, 26, 126},
	"windy":           {},
	"windy-variant":   {},
	"exceptional":     {},
}

var iconToCondition = func() map[int]string {
	m := make(map[int]string)
	for condition, icons := range conditionClasses {
		for _, icon := range icons {
			m[icon] = condition
		}
	}
	return m
}()

// ConditionForIcon resolves a weather icon code to its condition category.
// Unknown or absent icons resolve to the empty string.
func ConditionForIcon(icon *int) string {
	if icon == nil {
		return ""
	}
	return iconToCondition[*icon]
}
