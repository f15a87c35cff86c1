// Package pathconv converts validator field paths between naming conventions.
//
// A field path is what a validation engine reports for a failing value, for
// example "firstName", "address.streetName" or "items[2].unitPrice". The
// [Converter] selected for an API rewrites every path before it reaches a
// client, so one API can expose snake_case names while another keeps the
// engine's names untouched:
//
//	pathconv.CamelToSnake{}.Convert("items[2].unitPrice") // "items[2].unit_price"
//	pathconv.NoOp{}.Convert("items[2].unitPrice")         // "items[2].unitPrice"
//
// Converters are stateless and safe for concurrent use. Configuration picks
// one by name with [Lookup].
package pathconv
