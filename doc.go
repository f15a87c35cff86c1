// Package restvalidation prepares REST requests before their controller runs:
// request data is mapped into entities, normalized and validated, and
// validation failures are reported under field names in the naming
// convention each API exposes to its clients.
//
// Declare rules by implementing [Ruler] on entities:
//
//	func (t *Transfer) Rules() []*FieldRules {
//	    return []*FieldRules{
//	        Field(&t.FirstName, Required),
//	        Field(&t.Amount, Required, Min(0.01)),
//	    }
//	}
//
// Configure an [API] per logical API, register mappers on a [Manager] and run
// a [Listener] for every request:
//
//	api := NewAPI("wallet").
//	    SetPathConverter(pathconv.CamelToSnake{}).
//	    AddRequestMapper("transfer", "transfers.create", "transfer")
//	manager := NewManager(NewStaticResolver(api), WithMappers(NewStructMapper[Transfer]("transfer")))
//	err := NewListener(manager).OnController(ctx, req)
//
// A failed validation surfaces as an *apierror.Exception whose properties
// map converted field names to messages, e.g. {"first_name": ["cannot be blank"]}.
//
// Sub-packages:
//   - pathconv – field path naming conventions
//   - violation – violations and their grouping by field
//   - apierror – the error carrier and client-facing error body
//   - openapi – OpenAPI documents using the same field names
//   - transform – struct string transformation utilities
package restvalidation
