package field

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/syssam/arangox"
)

var (
	keyRe        = regexp.MustCompile(`^[a-zA-Z0-9_\-:.@()+,=;$!*'%]{1,254}$`)
	collectionRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]{0,255}$`)
)

// ValidatePrivate checks a server-managed attribute: _key must be a valid
// document key, _id, _from and _to must be document identifiers of the form
// "collection/key" and _rev must be a string.
func ValidatePrivate(name string, v any) error {
	s, ok := v.(string)
	if !ok {
		return arangox.NewValidationError(name, fmt.Errorf("expected string value, got %T", v))
	}
	var err error
	switch name {
	case "_key":
		err = ValidKey(s)
	case "_id", "_from", "_to":
		err = ValidID(s)
	case "_rev":
		if s == "" {
			err = errors.New("value is empty")
		}
	default:
		err = errors.New("not a known private field")
	}
	if err != nil {
		return arangox.NewValidationError(name, err)
	}
	return nil
}

// ValidKey reports whether key may be used as a document key.
func ValidKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%q is not a valid document key", key)
	}
	return nil
}

// ValidCollection reports whether name may be used as a collection name.
func ValidCollection(name string) error {
	if !collectionRe.MatchString(name) {
		return fmt.Errorf("%q is not a valid collection name", name)
	}
	return nil
}

// ValidID reports whether id is a document identifier.
func ValidID(id string) error {
	collection, key, ok := arangox.SplitID(id)
	if !ok {
		return fmt.Errorf("%q is not a document id", id)
	}
	if err := ValidCollection(collection); err != nil {
		return err
	}
	return ValidKey(key)
}
