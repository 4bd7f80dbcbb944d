package union

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Marshal marshals the provided union type into a JSON byte array. The fields of the single
// non-nil union member are inlined next to the shared fields, and the union key records which
// member was set.
func Marshal(v interface{}) ([]byte, error) {
	value := reflect.Indirect(reflect.ValueOf(v))
	unionTypes, err := parseUnionTypes(value.Type())
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage)

	for key, fields := range unionTypes {
		found := 0
		for tagValue, field := range fields {
			fieldVal := value.Field(field.index)
			if fieldVal.IsNil() {
				continue
			}
			found++
			if found > 1 {
				return nil, errors.Errorf("multiple union members set for %s", key)
			}

			bs, err := json.Marshal(fieldVal.Interface())
			if err != nil {
				return nil, err
			}
			memberFields := make(map[string]json.RawMessage)
			if err := json.Unmarshal(bs, &memberFields); err != nil {
				return nil, err
			}
			for k, raw := range memberFields {
				out[k] = raw
			}

			if out[key], err = json.Marshal(tagValue); err != nil {
				return nil, err
			}
		}
	}

	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if _, ok := field.Tag.Lookup(unionTag); ok {
			continue
		}
		if field.PkgPath != "" {
			continue
		}
		name, omitEmpty, err := parseJSONStructTag(field)
		if err != nil {
			return nil, err
		}
		if name == "" {
			continue
		}
		fieldVal := value.Field(i)
		if omitEmpty && isEmptyValue(fieldVal) {
			continue
		}
		if out[name], err = json.Marshal(fieldVal.Interface()); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

// parseJSONStructTag returns the effective JSON field name and whether omitempty was requested.
// An empty name means the field is skipped entirely. Any other encoding/json tag option would
// silently change the wire format, so it is rejected instead.
func parseJSONStructTag(field reflect.StructField) (string, bool, error) {
	tagValue, ok := field.Tag.Lookup("json")
	if !ok {
		return field.Name, false, nil
	}
	parts := strings.Split(tagValue, ",")
	name := parts[0]
	if name == "-" && len(parts) == 1 {
		return "", false, nil
	}
	if name == "" {
		name = field.Name
	}
	var omitEmpty bool
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			omitEmpty = true
		case "":
		default:
			return "", false, errors.Errorf("json tag features not supported: %s", opt)
		}
	}
	return name, omitEmpty, nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return false
	}
}
