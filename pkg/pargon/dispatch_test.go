package pargon

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type dispatchTestStruct struct {
	Name     string
	internal int
	Skip     string `pargon:"-"`
	Renamed  string `pargon:"alias"`
	Opt      string `pargon:"opt,omitempty"`
}

func TestGetStructInfoSkipsUnexportedAndDashed(t *testing.T) {
	info := getStructInfo(reflect.TypeOf(dispatchTestStruct{}))

	var names []string
	for _, f := range info.fields {
		names = append(names, f.name)
	}
	require.Equal(t, []string{"Name", "alias", "opt"}, names)
}

func TestGetStructInfoOmitEmptyFlag(t *testing.T) {
	info := getStructInfo(reflect.TypeOf(dispatchTestStruct{}))

	var opt fieldInfo
	for _, f := range info.fields {
		if f.name == "opt" {
			opt = f
		}
	}
	require.True(t, opt.omitEmpty)
}

func TestGetStructInfoCached(t *testing.T) {
	t1 := reflect.TypeOf(dispatchTestStruct{})
	info1 := getStructInfo(t1)
	info2 := getStructInfo(t1)
	require.Same(t, info1, info2)
}

func TestIsZeroValue(t *testing.T) {
	require.True(t, isZeroValue(reflect.ValueOf("")))
	require.False(t, isZeroValue(reflect.ValueOf("x")))
	require.True(t, isZeroValue(reflect.ValueOf(0)))
}

func TestDerefValue(t *testing.T) {
	var p *int
	_, wasNil := derefValue(reflect.ValueOf(p))
	require.True(t, wasNil)

	n := 5
	v, wasNil := derefValue(reflect.ValueOf(&n))
	require.False(t, wasNil)
	require.Equal(t, int64(5), v.Int())
}

func TestUnsupportedTypeError(t *testing.T) {
	err := unsupportedTypeError("buffer", reflect.TypeOf(struct{}{}))
	require.ErrorIs(t, err, ErrUnsupportedType)
}
