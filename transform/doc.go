// Package transform mutates the string fields of mapped request entities in
// place. [restvalidation.API] applies [StructTrimSpace] when string trimming is
// enabled, and entities often call these helpers from their Normalize method.
package transform
