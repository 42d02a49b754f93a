package rag

// The two document-store partitions. Hits from any other index are ignored.
const (
	MenuIndex = "index-of-menus"
	InfoIndex = "index-of-faqs"
)

var MealRestrictions = []string{
	"keto",
	"vegan",
	"paleo",
	"Mediterranean",
	"Gluten-Free",
	"Balanced-Meal",
}

var CalorieBands = []string{"no-calories", "low-calorie", "mid-calorie", "high-calorie"}

var PortionBands = []string{"no-serving-size", "small-portion", "medium-portion", "large-portion"}

var MacronutrientBands = []string{
	"fat-free", "low-fat", "mid-fat", "high-fat",
	"sat-fat-free", "low-sat-fat", "mid-sat-fat", "high-sat-fat",
	"cholesterol-free", "low-cholesterol", "mid-cholesterol", "high-cholesterol",
	"sodium-free", "low-sodium", "mid-sodium", "high-sodium",
	"carb-free", "low-carb", "mid-carb", "high-carb",
	"sugar-free", "low-sugar", "mid-sugar", "high-sugar",
	"fiber-free", "low-fiber", "mid-fiber", "high-fiber",
	"protein-free", "low-protein", "mid-protein", "high-protein",
}

var AvailableRestaurants = []string{"chick-fil-a", "trader-joe"}

// NoResultMessages is the fixed pool drawn from when nothing matched or the
// model's output could not be salvaged. Every entry reads standalone and
// invites the user to rephrase.
var NoResultMessages = []string{
	"Oops! 😅 We couldn't find any menu items matching your search. Please try using different keywords or any dietary plan.",
	"Oops! 😅 No items match your search. Try different keywords or dietary plans.",
	"Sorry! 😅 No results found. Please adjust your search terms or dietary plan.",
	"Oops! 😅 No matches found. Try another keyword or dietary plan.",
	"Sorry! 😅 We couldn't find any matches. Please use different keywords or dietary preferences.",
	"Oops! 😅 No items found. Please refine your search or dietary options.",
	"Oops! 😅 Looks like our menu's taking a nap. Try some new keywords or dietary plans!",
	"Yikes! 😅 Our kitchen's out of ideas. How about tweaking your search or dietary plan?",
	"Sorry! 😅 Our menu's hiding from us. Give a different search or dietary plan a shot!",
	"Oops! 😅 Seems like our menu's on vacation. Try changing your search terms or dietary preferences!",
	"Oops! 😅 We're out of menu items for now. Maybe a new keyword or dietary plan will do the trick!",
	"Oops! 😅 We need a bit more info to find the perfect menu item for you. Please share more details so we can serve up exactly what you're craving! 🍽️🔍",
}

// Sampling tiers. The strategy table and the extraction call pick from
// these; nothing else should hardcode decoding parameters.
const (
	TemperatureLow  = 0.2
	TemperatureMid  = 0.7
	TemperatureHigh = 1

	TopPLow  = 0.1
	TopPMid  = 0.7
	TopPHigh = 1

	FrequencyPenaltyLow  = 0
	FrequencyPenaltyMid  = 0.5
	FrequencyPenaltyHigh = 1

	PresencePenaltyLow  = 0
	PresencePenaltyMid  = 0.5
	PresencePenaltyHigh = 1

	MaxTokensLow  = 450
	MaxTokensMid  = 900
	MaxTokensHigh = 1500
)
