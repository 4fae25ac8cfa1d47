// Package textops implements the page's text transformations.
package textops

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operation names.
const (
	Upper   = "upper"
	Lower   = "lower"
	Title   = "title"
	Reverse = "reverse"
	Count   = "count"
)

var operations = map[string]func(string) any{
	Upper:   func(s string) any { return cases.Upper(language.Und).String(s) },
	Lower:   func(s string) any { return cases.Lower(language.Und).String(s) },
	Title:   func(s string) any { return cases.Title(language.Und).String(s) },
	Reverse: func(s string) any { return reverse(s) },
	Count:   func(s string) any { return utf8.RuneCountInString(s) },
}

var aliases = map[string]string{
	"uppercase":       Upper,
	"lowercase":       Lower,
	"titlecase":       Title,
	"character-count": Count,
}

// UnknownOperationError reports an operation outside the supported set.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return "Unknown operation: " + e.Name
}

// Apply runs the named operation on text. The result is a string for every
// operation except count, which returns the number of characters.
func Apply(text, operation string) (any, error) {
	name := operation
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	fn, ok := operations[name]
	if !ok {
		return nil, &UnknownOperationError{Name: operation}
	}
	return fn(text), nil
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
