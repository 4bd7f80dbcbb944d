package union

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/philpot/sagemaker-go-sdk/pkg/ptrs"
)

func TestMarshalOmitEmpty(t *testing.T) {
	type union struct {
		OptionA         *struct{} `union:"type,a" json:"-"`
		OptionB         *struct{} `union:"type,b" json:"-"`
		Regular         *string   `json:"regular"`
		ShouldBeOmitted *string   `json:"shouldBeOmitted,omitempty"`
		DontBeOmitted   *string   `json:"dontBeOmitted,omitempty"`
	}

	out, err := Marshal(union{OptionA: &struct{}{}, DontBeOmitted: ptrs.Ptr("test")})
	require.NoError(t, err, "marshal no error")
	require.Equal(t, string(out), `{"dontBeOmitted":"test","regular":null,"type":"a"}`,
		"incorrect unmarshaling")

	type badUnion struct {
		OptionA *struct{} `union:"type,a" json:"-"`
		OptionB *struct{} `union:"type,b" json:"-"`
		BadType *string   `json:"badType,string"`
	}
	_, err = Marshal(badUnion{OptionB: &struct{}{}, BadType: ptrs.Ptr("bad")})
	require.ErrorContains(t, err, "features not support")
}

func TestMarshalMemberFields(t *testing.T) {
	type aMember struct {
		Low  int `json:"low"`
		High int `json:"high"`
	}
	type bMember struct {
		Levels []string `json:"levels"`
	}
	type union struct {
		A    *aMember `union:"kind,a" json:"-"`
		B    *bMember `union:"kind,b" json:"-"`
		Name string   `json:"name"`
	}

	out, err := Marshal(union{A: &aMember{Low: 1, High: 5}, Name: "x"})
	require.NoError(t, err)
	require.Equal(t, `{"high":5,"kind":"a","low":1,"name":"x"}`, string(out))

	out, err = Marshal(union{B: &bMember{Levels: []string{"on", "off"}}, Name: "y"})
	require.NoError(t, err)
	require.Equal(t, `{"kind":"b","levels":["on","off"],"name":"y"}`, string(out))

	_, err = Marshal(union{A: &aMember{}, B: &bMember{}})
	require.ErrorContains(t, err, "multiple union members set")
}
