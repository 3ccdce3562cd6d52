// Package sanitizer holds the named string transforms that form fields can
// declare in their "sanitize" chain, plus the registry that resolves those
// names once when a form definition is loaded.
//
// Every transform is a plain func(string) string. Some are destructive: int,
// float, email and url return "" when the input cannot be coerced. Chain.Apply
// relies on that to hand the untouched input to the next transform.
package sanitizer
