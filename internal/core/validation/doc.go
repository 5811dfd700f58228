// Package validation evaluates the business rules of a registration record.
//
// This package is part of the functional core: every rule is a pure function
// of the record (no I/O, no side effects). Validation failures are values,
// never errors; a record is acceptable for submission iff Validate returns
// no violations.
//
// # Rules
//
// A rule is an independent object that inspects the whole record and returns
// zero or more violations, each attached to a dot-separated field path such as
// "sharesDetails.subscribedCapital" or "incorporators.2.birthdate". Rules do
// not depend on each other: a cross-field rule still runs when the fields it
// reads fail their own field-level rules. Rule order only affects the order in
// which violations are returned.
//
// # Usage
//
//	engine := validation.NewEngine()
//	violations := engine.Validate(record)
//	if !violations.Empty() {
//	    // Return 422 with violations
//	}
package validation
