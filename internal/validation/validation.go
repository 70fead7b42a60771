package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ValidateFieldName checks a document field name against the reserved
// namespace. The underscore prefix is reserved for internal fields,
// and names the store carries as dedicated columns cannot double as
// custom fields.
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("field name %q uses the reserved prefix \"_\"", name)
	}
	if IsReservedFieldName(name) {
		return fmt.Errorf("%q is a reserved field name", name)
	}
	return nil
}

// IsReservedFieldName checks if a field name collides with the
// store's own document attributes
func IsReservedFieldName(name string) bool {
	reserved := []string{
		"uuid", "kind", "title", "created_at", "updated_at",
	}
	name = strings.ToLower(name)
	for _, reservedName := range reserved {
		if name == reservedName {
			return true
		}
	}
	return false
}

// ValidateFieldValue ensures a field value is a simple type (string,
// number, bool, or time) that survives a JSON round trip intact
func ValidateFieldValue(name string, value interface{}) error {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Slice, reflect.Array:
		return fmt.Errorf("field %q cannot be an array/slice type, got %T", name, value)
	case reflect.Map:
		return fmt.Errorf("field %q cannot be a map type, got %T", name, value)
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return ValidateFieldValue(name, v.Elem().Interface())
	case reflect.Struct:
		// time.Time is the one struct with a natural field encoding
		if _, ok := value.(time.Time); ok {
			return nil
		}
		return fmt.Errorf("field %q cannot be a struct type, got %T", name, value)
	default:
		return fmt.Errorf("field %q must be a simple type (string, number, or bool), got %T", name, value)
	}
}
