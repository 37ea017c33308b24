// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead. The list view uses it to
// read the page-size selector, whose widget reports string values.
//
// Example:
//
//	n := utils.AtoiDefault("25", 10) // returns 25
//	n = utils.AtoiDefault("", 10)    // returns 10
//	n = utils.AtoiDefault("x", 10)   // returns 10
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
