package grocery

import (
	"sort"
	"strings"

	"github.com/dukerupert/basket/internal/model"
)

// Categorize suggests one of the default category names for an item.
// Matching is case-insensitive: whole-name matches win, then the longest
// keyword contained in the name. Unknown items fall back to "Other".
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return model.OtherCategory
	}
	if cat, ok := exactIndex[name]; ok {
		return cat
	}
	for _, kw := range keywordIndex {
		if strings.Contains(name, kw.keyword) {
			return kw.category
		}
	}
	return model.OtherCategory
}

type aisle struct {
	category string
	names    []string
	keywords []string
}

type keyword struct {
	keyword  string
	category string
}

var (
	exactIndex   = map[string]string{}
	keywordIndex []keyword
)

func init() {
	for _, a := range aisles {
		for _, n := range a.names {
			exactIndex[n] = a.category
		}
		for _, k := range a.keywords {
			keywordIndex = append(keywordIndex, keyword{keyword: k, category: a.category})
		}
	}
	sort.SliceStable(keywordIndex, func(i, j int) bool {
		return len(keywordIndex[i].keyword) > len(keywordIndex[j].keyword)
	})
}

var aisles = []aisle{
	{
		category: "Produce",
		names: []string{
			"apple", "apples", "banana", "bananas", "orange", "oranges", "lemon", "lemons",
			"lime", "limes", "avocado", "avocados", "tomato", "tomatoes", "potato", "potatoes",
			"onion", "onions", "garlic", "lettuce", "spinach", "kale", "broccoli", "carrots",
			"celery", "cucumber", "cucumbers", "peppers", "mushrooms", "corn", "grapes",
			"strawberries", "blueberries", "raspberries", "watermelon", "pineapple", "mango",
			"peach", "peaches", "pear", "pears", "cilantro", "basil", "parsley", "ginger",
			"jalapeño", "zucchini", "asparagus", "green beans",
		},
		keywords: []string{
			"salad mix", "baby spinach", "green onion", "sweet potato", "bell pepper",
			"cherry tomato", "romaine", "arugula", "cabbage", "cauliflower", "squash", "melon",
			"berry", "berries", "fruit", "herb", "lettuce", "spinach", "kale", "apple", "banana",
			"tomato", "potato", "onion", "pepper", "carrot", "celery",
		},
	},
	{
		category: "Dairy",
		names: []string{
			"milk", "eggs", "butter", "cheese", "yogurt", "cream cheese", "sour cream",
			"heavy cream", "half and half", "cottage cheese",
		},
		keywords: []string{
			"cream cheese", "sour cream", "heavy cream", "cottage cheese", "half and half",
			"greek yogurt", "almond milk", "oat milk", "yogurt", "cheese", "milk", "butter",
			"cream", "egg",
		},
	},
	{
		category: "Meat",
		names: []string{
			"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "salmon",
			"shrimp", "tuna", "fish", "ground beef", "ground turkey", "hot dogs", "deli meat",
			"lamb", "crab", "lobster", "tilapia",
		},
		keywords: []string{
			"chicken breast", "chicken thigh", "chicken wing", "ground beef", "ground turkey",
			"deli meat", "pork chop", "hot dog",
		},
	},
	{
		category: "Bakery",
		names: []string{
			"bread", "bagels", "tortillas", "rolls", "buns", "muffins", "croissants", "pita",
		},
		keywords: []string{
			"sourdough", "whole wheat", "bread", "bagel", "tortilla", "bun", "roll", "muffin",
			"croissant",
		},
	},
	{
		category: "Pantry",
		names: []string{
			"rice", "pasta", "flour", "sugar", "salt", "pepper", "oil", "olive oil", "vinegar",
			"soy sauce", "ketchup", "mustard", "mayonnaise", "honey", "peanut butter", "jelly",
			"jam", "cereal", "oatmeal", "canned beans", "canned tomatoes", "soup", "broth",
			"beans", "lentils", "nuts", "almonds", "spaghetti", "noodles", "maple syrup",
			"hot sauce", "salsa", "chips", "crackers", "cookies", "popcorn", "pretzels",
			"granola bars", "trail mix", "candy", "chocolate", "fruit snacks",
		},
		keywords: []string{
			"peanut butter", "olive oil", "coconut oil", "maple syrup", "hot sauce", "soy sauce",
			"pasta sauce", "tomato sauce", "canned", "cereal", "oatmeal", "granola", "rice",
			"pasta", "noodle", "flour", "sugar", "spice", "seasoning", "sauce", "broth", "stock",
			"soup", "bean", "lentil", "granola bar", "trail mix", "fruit snack", "chip",
			"cracker", "cookie", "popcorn", "pretzel", "candy", "chocolate", "snack",
		},
	},
	{
		category: "Frozen",
		names: []string{
			"ice cream", "frozen pizza", "frozen veggies", "frozen fruit", "frozen waffles",
			"popsicles",
		},
		keywords: []string{
			"frozen", "ice cream", "popsicle",
		},
	},
	{
		category: "Beverages",
		names: []string{
			"water", "juice", "coffee", "tea", "soda", "beer", "wine", "kombucha", "lemonade",
			"sparkling water",
		},
		keywords: []string{
			"sparkling water", "orange juice", "apple juice", "coffee", "tea", "juice", "soda",
			"water", "beer", "wine", "drink",
		},
	},
	{
		category: "Household",
		names: []string{
			"paper towels", "toilet paper", "trash bags", "dish soap", "laundry detergent",
			"sponges", "aluminum foil", "plastic wrap", "zip bags", "ziplock bags", "light bulbs",
			"batteries", "napkins", "cleaning spray", "bleach", "shampoo", "conditioner", "soap",
			"body wash", "toothpaste", "toothbrush", "deodorant", "lotion", "sunscreen", "floss",
			"razors", "tissues", "band-aids",
		},
		keywords: []string{
			"paper towel", "toilet paper", "trash bag", "garbage bag", "dish soap", "laundry",
			"detergent", "cleaner", "cleaning", "sponge", "foil", "plastic wrap", "ziplock",
			"battery", "light bulb", "body wash", "shampoo", "conditioner", "toothpaste",
			"toothbrush", "deodorant", "lotion", "sunscreen", "razor", "tissue", "band-aid",
		},
	},
}
