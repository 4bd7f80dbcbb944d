// Package union implements marshaling and unmarshaling of JSON sum types. A union is a struct
// with one pointer field per member, each tagged `union:"key,value"` and `json:"-"`; any untagged
// fields are shared by all members. Exactly one member is expected to be non-nil at a time, and
// the JSON representation holds the member's fields inline plus the key/value pair naming it.
package union

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

const unionTag = "union"

type unionField struct {
	index int
	field reflect.StructField
}

// parseUnionStructTag parses the "union" struct tag. The format of the struct tag is "key,value"
// where key is the key is the common union type name for all the union type values and value is
// the name of the fields union type.
func parseUnionStructTag(tagValue string) (string, string, error) {
	switch parsed := strings.Split(tagValue, ","); {
	case len(parsed) == 2:
		return parsed[0], parsed[1], nil
	default:
		return "", "", errors.Errorf("unexpected union tag format: %s", unionTag)
	}
}

// parseUnionTypes maps each union key of the struct type to the fields holding its members,
// keyed by tag value. Member fields must be pointers to structs so that absence is expressible.
func parseUnionTypes(t reflect.Type) (map[string]map[string]unionField, error) {
	unionTypes := make(map[string]map[string]unionField)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tagValue, ok := f.Tag.Lookup(unionTag)
		if !ok {
			continue
		}
		key, value, err := parseUnionStructTag(tagValue)
		if err != nil {
			return nil, err
		}
		if f.Type.Kind() != reflect.Ptr || f.Type.Elem().Kind() != reflect.Struct {
			return nil, errors.Errorf("union field %s must be a pointer to a struct", f.Name)
		}
		fields, ok := unionTypes[key]
		if !ok {
			fields = make(map[string]unionField)
			unionTypes[key] = fields
		}
		if _, ok := fields[value]; ok {
			return nil, errors.Errorf("duplicate union value for %s: %s", key, value)
		}
		fields[value] = unionField{index: i, field: f}
	}
	return unionTypes, nil
}

// getTagValue returns the name of the union type (keyed by the tag field) that is defined in the
// data bytes. If no key is defined, the second result returns false. If input data is not a JSON
// object or the tag value is not a string, an error is returned.
func getTagValue(data []byte, tag string) (string, bool, error) {
	// Parse the raw JSON blob into a map.
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, err
	}

	// Look for the key tag in the map.
	tagValue, ok := parsed[tag]
	if !ok {
		return "", false, nil
	}

	// Ensure that the tag value is a string.
	typed, ok := tagValue.(string)
	if !ok {
		return "", false, errors.Errorf("%s must be a string: got %T", tag, typed)
	}
	return typed, true, nil
}
