package union

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Unmarshal unmarshals the provided union type from a JSON byte array. The union key in the data
// selects which member is populated; all other members are zeroed. Keys belonging to neither the
// shared fields nor the selected member are rejected.
func Unmarshal(data []byte, v interface{}) error {
	value := reflect.ValueOf(v).Elem()
	unionTypes, err := parseUnionTypes(value.Type())
	if err != nil {
		return err
	}

	expectedFields := fieldNames(value.Type())
	for key, members := range unionTypes {
		expectedFields[key] = true
		tagValue, ok, err := getTagValue(data, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		selected, ok := members[tagValue]
		if !ok {
			return errors.Errorf("unexpected %s: %s", key, tagValue)
		}
		if err := unmarshalMember(data, value, selected); err != nil {
			return err
		}
		for _, member := range members {
			if member.index != selected.index {
				value.Field(member.index).Set(reflect.Zero(member.field.Type))
			}
		}
		for name := range fieldNames(selected.field.Type.Elem()) {
			expectedFields[name] = true
		}
	}
	return checkFields(expectedFields, data)
}

// unmarshalMember parses the data into the selected member field, allocating the member when it
// is nil.
func unmarshalMember(data []byte, value reflect.Value, member unionField) error {
	fieldVal := value.Field(member.index)
	if fieldVal.IsNil() {
		fieldVal.Set(reflect.New(member.field.Type.Elem()))
	}
	return json.Unmarshal(data, fieldVal.Interface())
}

// fieldNames collects the JSON names of the struct's fields, skipping fields excluded with "-".
func fieldNames(elem reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		tagValue, ok := field.Tag.Lookup("json")
		switch {
		case !ok:
			fields[field.Name] = true
		case tagValue == "-":
		default:
			fields[strings.Split(tagValue, ",")[0]] = true
		}
	}
	return fields
}

// checkFields rejects any key in the data that no expected field claims, with the same message
// encoding/json produces under DisallowUnknownFields.
func checkFields(fields map[string]bool, bytes []byte) error {
	data := make(map[string]interface{})
	if err := json.Unmarshal(bytes, &data); err != nil {
		return err
	}
	for key := range data {
		if _, ok := fields[key]; !ok {
			return errors.Errorf("json: unknown field %q", key)
		}
	}
	return nil
}
