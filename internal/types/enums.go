package types

import (
	"regexp"
	"strconv"
	"strings"
)

// Folder is one of the fixed physical recipe folders.
type Folder string

// Category is one of the fixed recipe categories.
type Category string

// DietaryTag is one of the eight supported dietary tags.
type DietaryTag string

// FreezerUnit is the unit a freezer item is counted in.
type FreezerUnit string

// FreezerCategory groups freezer items on the inventory page.
type FreezerCategory string

// Folders lists the physical folders in display order.
var Folders = []Folder{
	"Folder 1 - Chicken & Poultry",
	"Folder 2 - Beef",
	"Folder 3 - Pork & Lamb",
	"Folder 4 - Fish & Seafood",
	"Folder 5 - Eggs",
	"Folder 6 - Beans & Legumes",
	"Folder 7 - Pasta & Noodles",
	"Folder 8 - Rice & Grains",
	"Folder 9 - Potatoes",
	"Folder 10 - Vegetable Mains",
	"Folder 11 - Salads",
	"Folder 12 - Soups, Stews & Broth",
	"Folder 13 - Dressings, Sauces & Marinades",
	"Folder 14 - Dips & Spreads",
	"Folder 15 - Bread & Baking",
	"Folder 16 - Breakfast Items",
	"Folder 17 - Desserts & Sweets",
	"Folder 18 - Beverages & Smoothies",
	"Folder 19 - Snacks & Appetizers",
	"Folder 20 - Condiments & Preserves",
}

const (
	CategoryMainCourse    Category = "main course"
	CategorySideDish      Category = "side dish"
	CategoryAppetizer     Category = "appetizer"
	CategoryFingerFood    Category = "finger food"
	CategorySnack         Category = "snack"
	CategoryDessert       Category = "dessert"
	CategoryBreakfast     Category = "breakfast"
	CategorySoup          Category = "soup"
	CategorySalad         Category = "salad"
	CategorySauceDressing Category = "sauce/dressing"
	CategoryBeverage      Category = "beverage"
	CategorySpiceBlend    Category = "spice blend"
)

// Categories lists the recipe categories in display order.
var Categories = []Category{
	CategoryMainCourse,
	CategorySideDish,
	CategoryAppetizer,
	CategoryFingerFood,
	CategorySnack,
	CategoryDessert,
	CategoryBreakfast,
	CategorySoup,
	CategorySalad,
	CategorySauceDressing,
	CategoryBeverage,
	CategorySpiceBlend,
}

const (
	TagKeto        DietaryTag = "keto"
	TagLowCarb     DietaryTag = "low-carb"
	TagPaleo       DietaryTag = "paleo"
	TagWhole30     DietaryTag = "whole30"
	TagGlutenFree  DietaryTag = "gluten-free"
	TagVegetarian  DietaryTag = "vegetarian"
	TagDairyFree   DietaryTag = "dairy-free"
	TagHighProtein DietaryTag = "high-protein"
)

// DietaryTags lists the dietary tags in display order.
var DietaryTags = []DietaryTag{
	TagKeto,
	TagLowCarb,
	TagPaleo,
	TagWhole30,
	TagGlutenFree,
	TagVegetarian,
	TagDairyFree,
	TagHighProtein,
}

var dietaryLabels = map[DietaryTag]string{
	TagKeto:        "Keto-Friendly",
	TagLowCarb:     "Low-Carb",
	TagPaleo:       "Paleo",
	TagWhole30:     "Whole30",
	TagGlutenFree:  "Gluten-Free",
	TagVegetarian:  "Vegetarian",
	TagDairyFree:   "Dairy-Free",
	TagHighProtein: "High-Protein",
}

const (
	UnitServings   FreezerUnit = "servings"
	UnitPortions   FreezerUnit = "portions"
	UnitPieces     FreezerUnit = "pieces"
	UnitCubes      FreezerUnit = "cubes"
	UnitPackages   FreezerUnit = "packages"
	UnitBags       FreezerUnit = "bags"
	UnitContainers FreezerUnit = "containers"
)

// FreezerUnits lists the supported freezer units.
var FreezerUnits = []FreezerUnit{
	UnitServings,
	UnitPortions,
	UnitPieces,
	UnitCubes,
	UnitPackages,
	UnitBags,
	UnitContainers,
}

const (
	FreezerPreparedComponents FreezerCategory = "Prepared Components"
	FreezerProteins           FreezerCategory = "Proteins"
	FreezerVegetables         FreezerCategory = "Vegetables"
	FreezerFruits             FreezerCategory = "Fruits"
	FreezerCompleteMeals      FreezerCategory = "Complete Meals"
	FreezerFlavorArsenal      FreezerCategory = "Flavor Arsenal"
	FreezerPantry             FreezerCategory = "Pantry"
	FreezerOther              FreezerCategory = "Other"
)

// FreezerCategories lists the freezer categories in display order.
var FreezerCategories = []FreezerCategory{
	FreezerPreparedComponents,
	FreezerProteins,
	FreezerVegetables,
	FreezerFruits,
	FreezerCompleteMeals,
	FreezerFlavorArsenal,
	FreezerPantry,
	FreezerOther,
}

var folderNumber = regexp.MustCompile(`(?i)^\s*folder\s+(\d+)\b`)

// ParseFolder returns the canonical folder for s. Older folder names that
// differ only in their description are matched by folder number.
func ParseFolder(s string) (Folder, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, f := range Folders {
		if string(f) == s {
			return f, true
		}
	}
	m := folderNumber.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > len(Folders) {
		return "", false
	}
	return Folders[n-1], true
}

// Valid reports whether f is one of the canonical folders.
func (f Folder) Valid() bool {
	for _, known := range Folders {
		if f == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the category set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseDietaryTag matches s case-insensitively against the dietary tag set.
func ParseDietaryTag(s string) (DietaryTag, bool) {
	t := DietaryTag(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t DietaryTag) Valid() bool {
	_, ok := dietaryLabels[t]
	return ok
}

// Label is the human readable name shown next to the tag.
func (t DietaryTag) Label() string {
	if label, ok := dietaryLabels[t]; ok {
		return label
	}
	return string(t)
}

// ParseFreezerUnit returns UnitServings for an empty input.
func ParseFreezerUnit(s string) (FreezerUnit, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitServings, true
	}
	u := FreezerUnit(s)
	for _, known := range FreezerUnits {
		if u == known {
			return u, true
		}
	}
	return "", false
}

// ParseFreezerCategory returns FreezerPreparedComponents for an empty input.
func ParseFreezerCategory(s string) (FreezerCategory, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FreezerPreparedComponents, true
	}
	for _, known := range FreezerCategories {
		if strings.EqualFold(string(known), s) {
			return known, true
		}
	}
	return "", false
}
