// Package field provides fluent builders for the field rules of a collection.
//
// Documents are schemaless on the server. Field rules let the client check
// attributes before a vertex or edge is sent, so a malformed document is
// rejected without a round trip.
//
// # Field Kinds
//
//	field.String("name")
//	field.Int("age")
//	field.Float("score")
//	field.Bool("active")
//	field.List("aliases")
//	field.Object("address")
//	field.Any("payload")
//
// # Validation
//
// Built-in validators:
//
//	field.String("name").NotEmpty().MaxLen(100)
//	field.String("code").Match(regexp.MustCompile(`^[A-Z]{3}$`))
//	field.Int("age").NonNegative().Max(150)
//	field.Float("rating").Range(0, 5)
//
// Tag validators (go-playground/validator syntax):
//
//	field.String("email").Validate("email")
//	field.String("role").Validate("oneof=admin member guest")
//
// Every field is required unless marked Optional. Attributes without a rule
// are accepted unchanged.
//
// # Private Fields
//
// Attributes prefixed with an underscore are managed by the server. They are
// checked by ValidatePrivate regardless of the declared rules:
//
//	field.ValidatePrivate("_from", "person/alice") // ok
//	field.ValidatePrivate("_to", "alice")          // error: not a document id
package field
