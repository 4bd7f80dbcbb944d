package union

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type intRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

type levels struct {
	Levels []string `json:"levels"`
}

type kinds struct {
	A *intRange `union:"kind,a" json:"-"`
	B *levels   `union:"kind,b" json:"-"`

	Name string `json:"name"`
}

func TestUnmarshalSelectsMember(t *testing.T) {
	var parsed kinds
	err := Unmarshal([]byte(`{"kind":"a","low":1,"high":3,"name":"r"}`), &parsed)
	require.NoError(t, err)
	require.NotNil(t, parsed.A)
	require.Nil(t, parsed.B)
	require.Equal(t, intRange{Low: 1, High: 3}, *parsed.A)

	// The name field belongs to the container, not the member, so it is only filled by a
	// follow-up plain unmarshal in the owning type.
	err = Unmarshal([]byte(`{"kind":"b","levels":["x"]}`), &parsed)
	require.NoError(t, err)
	require.Nil(t, parsed.A)
	require.NotNil(t, parsed.B)
}

func TestUnmarshalRejectsUnknownMember(t *testing.T) {
	var parsed kinds
	err := Unmarshal([]byte(`{"kind":"c"}`), &parsed)
	require.ErrorContains(t, err, "unexpected kind: c")
}

func TestUnmarshalRejectsUnknownField(t *testing.T) {
	var parsed kinds
	err := Unmarshal([]byte(`{"kind":"a","low":1,"bogus":2}`), &parsed)
	require.ErrorContains(t, err, `json: unknown field "bogus"`)
}

func TestUnmarshalMissingTagLeavesMembersAlone(t *testing.T) {
	var parsed kinds
	err := Unmarshal([]byte(`{"name":"only-shared"}`), &parsed)
	require.NoError(t, err)
	require.Nil(t, parsed.A)
	require.Nil(t, parsed.B)
}
