package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriStateJSON(t *testing.T) {
	attrs := Attributes{"contem_ovos": Contains, "contem_soja": FreeOf, "contem_peixe": Unknown}
	data, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contem_ovos":true,"contem_soja":false,"contem_peixe":null}`, string(data))

	var back Attributes
	require.NoError(t, json.Unmarshal([]byte(`{"contem_ovos":true,"contem_soja":false,"contem_peixe":null}`), &back))
	assert.Equal(t, Contains, back.Get("contem_ovos"))
	assert.Equal(t, FreeOf, back.Get("contem_soja"))
	assert.Equal(t, Unknown, back.Get("contem_peixe"))
	assert.Equal(t, Unknown, back.Get("contem_gluten"))

	assert.Error(t, json.Unmarshal([]byte(`{"contem_ovos":"sim"}`), &back))
}

func TestTriStateBool(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, Contains, TriStateOf(&yes))
	assert.Equal(t, FreeOf, TriStateOf(&no))
	assert.Equal(t, Unknown, TriStateOf(nil))
	assert.Nil(t, Unknown.Bool())
	assert.Equal(t, "free_of", FreeOf.String())
}

func TestAttributesColumn(t *testing.T) {
	var nilAttrs Attributes
	v, err := nilAttrs.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
	assert.Equal(t, Unknown, nilAttrs.Get("contem_ovos"))

	tests := []struct {
		name    string
		value   interface{}
		want    Attributes
		wantErr bool
	}{
		{name: "bytes", value: []byte(`{"contem_ovos":true}`), want: Attributes{"contem_ovos": Contains}},
		{name: "string", value: `{"contem_ovos":false}`, want: Attributes{"contem_ovos": FreeOf}},
		{name: "null column", value: nil, want: Attributes{}},
		{name: "blank", value: []byte("  "), want: Attributes{}},
		{name: "wrong type", value: 42, wantErr: true},
		{name: "bad json", value: `{"contem_ovos":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Attributes
			err := a.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAttributesClone(t *testing.T) {
	a := Attributes{"contem_ovos": Contains}
	b := a.Clone()
	b["contem_ovos"] = FreeOf
	assert.Equal(t, Contains, a["contem_ovos"])
	assert.Nil(t, Attributes(nil).Clone())
}

func TestProductIsUnknown(t *testing.T) {
	p := Product{Alergicos: "  ", Ingredientes: "\n"}
	assert.True(t, p.IsUnknown())

	p.DescricaoIngredientes = "farinha de trigo"
	assert.False(t, p.IsUnknown())
}

func TestProductBrand(t *testing.T) {
	p := Product{Marca: "Antiga"}
	assert.Equal(t, "Antiga", p.Brand())

	p.Empresa = &Company{Nome: "Doce Vida"}
	assert.Equal(t, "Doce Vida", p.Brand())

	p.Empresa = &Company{}
	assert.Equal(t, "Antiga", p.Brand())
}
