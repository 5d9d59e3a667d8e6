package shopping

import "strings"

// SuggestCategory guesses a catalog category name for a product by keyword.
// Whole-name matches win over word-prefix matches, so "apples" finds "apple"
// but "steak" never finds "tea". It returns "" when nothing matches.
func SuggestCategory(productName string) string {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return ""
	}

	for _, k := range keywords {
		if name == k.word {
			return k.category
		}
	}
	padded := " " + name
	for _, k := range keywords {
		if strings.Contains(padded, " "+k.word) {
			return k.category
		}
	}
	return ""
}

type keyword struct {
	word     string
	category string
}

// Ordered so that more specific words are tried before shorter ones they
// contain ("ice cream" before "cream", "frozen" before anything it wraps).
var keywords = []keyword{
	{"frozen", "Frozen"},
	{"ice cream", "Frozen"},
	{"popsicle", "Frozen"},
	{"peanut butter", "Pantry"},
	{"coconut milk", "Pantry"},
	{"chicken broth", "Pantry"},
	{"sparkling water", "Beverages"},
	{"orange juice", "Beverages"},
	{"paper towel", "Household"},
	{"toilet paper", "Household"},
	{"detergent", "Household"},
	{"dish soap", "Household"},
	{"trash bag", "Household"},
	{"sponge", "Household"},
	{"chicken", "Meat & Seafood"},
	{"beef", "Meat & Seafood"},
	{"pork", "Meat & Seafood"},
	{"bacon", "Meat & Seafood"},
	{"salmon", "Meat & Seafood"},
	{"shrimp", "Meat & Seafood"},
	{"tuna", "Meat & Seafood"},
	{"milk", "Dairy"},
	{"cheese", "Dairy"},
	{"yogurt", "Dairy"},
	{"butter", "Dairy"},
	{"cream", "Dairy"},
	{"eggs", "Dairy"},
	{"bread", "Bakery"},
	{"bagel", "Bakery"},
	{"croissant", "Bakery"},
	{"tortilla", "Bakery"},
	{"muffin", "Bakery"},
	{"rice", "Pantry"},
	{"pasta", "Pantry"},
	{"beans", "Pantry"},
	{"flour", "Pantry"},
	{"sugar", "Pantry"},
	{"cereal", "Pantry"},
	{"oil", "Pantry"},
	{"coffee", "Beverages"},
	{"tea", "Beverages"},
	{"juice", "Beverages"},
	{"soda", "Beverages"},
	{"watermelon", "Produce"},
	{"water", "Beverages"},
	{"apple", "Produce"},
	{"banana", "Produce"},
	{"tomato", "Produce"},
	{"potato", "Produce"},
	{"onion", "Produce"},
	{"lettuce", "Produce"},
	{"spinach", "Produce"},
	{"carrot", "Produce"},
	{"lemon", "Produce"},
	{"garlic", "Produce"},
}
