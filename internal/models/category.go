package models

import "strings"

// Category is the closed set of listing categories.
type Category string

const (
	CategoryEducation  Category = "Education"
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "Non-Fiction"
	CategoryComics     Category = "Comics"
	CategoryMystery    Category = "Mystery"
	CategoryHistory    Category = "History"
	CategoryTechnology Category = "Technology"
	CategoryHealth     Category = "Health"
)

var Categories = []Category{
	CategoryEducation,
	CategoryFiction,
	CategoryNonFiction,
	CategoryComics,
	CategoryMystery,
	CategoryHistory,
	CategoryTechnology,
	CategoryHealth,
}

// ParseCategory matches value case-insensitively against the known categories.
func ParseCategory(value string) (Category, bool) {
	trimmed := strings.TrimSpace(value)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

// Condition describes the physical state of a listed book.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
}

// ParseCondition accepts the stored spelling and the LikeNew alias.
func ParseCondition(value string) (Condition, bool) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, "LikeNew") {
		return ConditionLikeNew, true
	}
	for _, c := range Conditions {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}
