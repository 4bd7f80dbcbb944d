package check

import (
	"reflect"

	"github.com/pkg/errors"
)

// True checks whether the condition is true. This method returns an error with the provided
// message if the check fails.
func True(condition bool, msgAndArgs ...interface{}) error {
	return check(condition, msgAndArgs, "expected true, got false")
}

// Equal checks whether the arguments are equal using reflect.DeepEqual. This method returns an
// error with the provided message if the check fails.
func Equal(actual, expected interface{}, msgAndArgs ...interface{}) error {
	return check(reflect.DeepEqual(actual, expected), msgAndArgs,
		"%s does not equal %s", actual, expected)
}

// NotEmpty checks whether the actual value is non-empty. Emptiness is length for strings,
// slices, and maps and the zero value for everything else. This method returns an error with the
// provided message if the check fails.
func NotEmpty(actual interface{}, msgAndArgs ...interface{}) error {
	v, ok := indirect(actual)
	var nonEmpty bool
	switch {
	case !ok:
	case v.Kind() == reflect.String, v.Kind() == reflect.Slice, v.Kind() == reflect.Map,
		v.Kind() == reflect.Array:
		nonEmpty = v.Len() > 0
	default:
		nonEmpty = !v.IsZero()
	}
	return check(nonEmpty, msgAndArgs, "%s must be non-empty", actual)
}

// Contains checks whether the actual value is contained in the expected list. This method returns
// an error with the provided message if the check fails.
func Contains(actual interface{}, expected []interface{}, msgAndArgs ...interface{}) error {
	for _, value := range expected {
		if value == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%s not in %s", actual, expected)
}

// LessThanOrEqualTo checks whether the first argument is less than or equal to the second. Nil
// pointer arguments pass vacuously. This method returns an error with the provided message if the
// check fails.
func LessThanOrEqualTo(actual, expected interface{}, msgAndArgs ...interface{}) error {
	compared, ok, err := compare(actual, expected)
	if err != nil {
		return err
	} else if !ok {
		return nil
	}
	return check(compared <= 0, msgAndArgs, "%s is greater than %s", actual, expected)
}

// indirect dereferences pointers and interfaces until hitting a concrete value. The second result
// is false when the chain ends in nil.
func indirect(i interface{}) (reflect.Value, bool) {
	v := reflect.ValueOf(i)
	for {
		switch {
		case !v.IsValid():
			return v, false
		case v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface:
			if v.IsNil() {
				return v, false
			}
			v = v.Elem()
		default:
			return v, true
		}
	}
}

// compare orders two values of the same underlying numeric or string type. The second result is
// false when either side is nil, which callers treat as a vacuously passing check.
func compare(actual, expected interface{}) (int, bool, error) {
	av, aOK := indirect(actual)
	ev, eOK := indirect(expected)
	if !aOK || !eOK {
		return 0, false, nil
	}

	order := func(less, equal bool) int {
		switch {
		case less:
			return -1
		case equal:
			return 0
		default:
			return 1
		}
	}

	switch {
	case isInt(av) && isInt(ev):
		return order(av.Int() < ev.Int(), av.Int() == ev.Int()), true, nil
	case isUint(av) && isUint(ev):
		return order(av.Uint() < ev.Uint(), av.Uint() == ev.Uint()), true, nil
	case isFloat(av) && isFloat(ev):
		return order(av.Float() < ev.Float(), av.Float() == ev.Float()), true, nil
	case av.Kind() == reflect.String && ev.Kind() == reflect.String:
		return order(av.String() < ev.String(), av.String() == ev.String()), true, nil
	default:
		return 0, false, errors.Errorf("%T and %T are not comparable", actual, expected)
	}
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloat(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// check converts a failed condition into an error combining the user-provided message with the
// internal description of the failed check.
func check(condition bool, msgAndArgs []interface{}, internalMsgAndArgs ...interface{}) error {
	if condition {
		return nil
	}
	message := messageFromMsgAndArgs(false, msgAndArgs...)
	internalMessage := messageFromMsgAndArgs(true, internalMsgAndArgs...)
	if message == "" {
		return errors.New(internalMessage)
	}
	return errors.Errorf("%s: %s", message, internalMessage)
}
