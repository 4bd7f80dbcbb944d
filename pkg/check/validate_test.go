package check

import (
	"testing"

	"gotest.tools/assert"
)

type testcase1 struct {
	A bool
}

func (t *testcase1) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type testcase2 struct {
	A bool
}

func (t testcase2) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

func TestMethodSets(t *testing.T) {
	case1 := testcase1{
		A: false,
	}
	case2 := testcase2{
		A: false,
	}
	err := Validate(case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
}

type nested struct {
	Inner  testcase2
	Values []testcase2
	ByName map[string]testcase2
}

func TestNestedPaths(t *testing.T) {
	bad := nested{
		Inner:  testcase2{A: true},
		Values: []testcase2{{A: true}, {A: false}},
		ByName: map[string]testcase2{"ok": {A: true}},
	}
	err := Validate(bad)
	assert.ErrorContains(t, err, "error found at root.Values[1]")

	bad = nested{
		Inner:  testcase2{A: true},
		ByName: map[string]testcase2{"broken": {A: false}},
	}
	err = Validate(bad)
	assert.ErrorContains(t, err, "error found at root.ByName[broken]")

	good := nested{
		Inner:  testcase2{A: true},
		Values: []testcase2{{A: true}},
		ByName: map[string]testcase2{"ok": {A: true}},
	}
	assert.NilError(t, Validate(good))
}

func TestNilPointerSkipped(t *testing.T) {
	var missing *testcase1
	assert.NilError(t, Validate(missing))
}
