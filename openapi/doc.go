// Package openapi builds OpenAPI 3 documents for APIs whose entities
// implement [restvalidation.Ruler]. Property names follow the same path
// converter the API uses for violations, so a client reading the document
// sees the field names error responses will report.
//
// Use [DocBase] to create a base document and register endpoints with [Get],
// [Post], [Put], [Patch], or [Delete]:
//
//	doc := openapi.DocBase("wallet", "Wallet API", "1.0")
//	openapi.Post(doc, "/transfers", "createTransfer", openapi.Endpoint{
//	    Request:          Transfer{},
//	    Response:         Transfer{},
//	    PathConverter:    pathconv.CamelToSnake{},
//	    ValidationErrors: true,
//	})
package openapi
