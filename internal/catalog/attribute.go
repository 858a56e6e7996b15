// internal/catalog/attribute.go

// Package catalog holds the filtering core of the product browser: the
// dietary attribute classes, the filter state and its transitions, the
// evaluator that decides which products pass, the catalog index and the
// codec that maps filter state to and from a URL query string.
//
// Nothing in this package performs I/O. Catalog loading lives in the
// services package behind the Provider interface.
package catalog

// AttributeClass is one allergen or dietary dimension. HasKey and MayKey
// are product attribute keys; BaseFilterKey and TracesFilterKey are the
// filter toggles that exclude products containing (or possibly containing
// traces of) the attribute. Classes without a traces toggle leave MayKey
// and TracesFilterKey empty.
type AttributeClass struct {
	Name            string `json:"name"`
	HasKey          string `json:"has_key"`
	MayKey          string `json:"may_key,omitempty"`
	BaseFilterKey   string `json:"base_filter_key"`
	TracesFilterKey string `json:"traces_filter_key,omitempty"`
	Label           string `json:"label"`
	TracesLabel     string `json:"traces_label,omitempty"`
}

func (c AttributeClass) HasTraces() bool {
	return c.TracesFilterKey != ""
}

var classes = []AttributeClass{
	{Name: "leite", HasKey: "leite_ou_derivados", MayKey: "pode_conter_leite", BaseFilterKey: "sem_leite", TracesFilterKey: "sem_tracos_leite", Label: "Sem leite/derivados", TracesLabel: "Sem traços de leite"},
	{Name: "lactose", HasKey: "contem_lactose", MayKey: "pode_conter_lactose", BaseFilterKey: "sem_lactose", TracesFilterKey: "sem_tracos_lactose", Label: "Sem lactose", TracesLabel: "Sem traços de lactose"},
	{Name: "ovos", HasKey: "contem_ovos", MayKey: "pode_conter_ovos", BaseFilterKey: "sem_ovos", TracesFilterKey: "sem_tracos_ovos", Label: "Sem ovos", TracesLabel: "Sem traços de ovos"},
	{Name: "gluten", HasKey: "contem_gluten", MayKey: "pode_conter_gluten", BaseFilterKey: "sem_gluten", TracesFilterKey: "sem_tracos_gluten", Label: "Sem glúten", TracesLabel: "Sem traços de glúten"},
	{Name: "soja", HasKey: "contem_soja", MayKey: "pode_conter_soja", BaseFilterKey: "sem_soja", TracesFilterKey: "sem_tracos_soja", Label: "Sem soja", TracesLabel: "Sem traços de soja"},
	{Name: "amendoim", HasKey: "contem_amendoim", MayKey: "pode_conter_amendoim", BaseFilterKey: "sem_amendoim", TracesFilterKey: "sem_tracos_amendoim", Label: "Sem amendoim", TracesLabel: "Sem traços de amendoim"},
	{Name: "castanhas", HasKey: "contem_castanhas", MayKey: "pode_conter_castanhas", BaseFilterKey: "sem_castanhas", TracesFilterKey: "sem_tracos_castanhas", Label: "Sem castanhas", TracesLabel: "Sem traços de castanhas"},
	{Name: "peixe", HasKey: "contem_peixe", MayKey: "pode_conter_peixe", BaseFilterKey: "sem_peixe", TracesFilterKey: "sem_tracos_peixe", Label: "Sem peixe", TracesLabel: "Sem traços de peixe"},
	{Name: "crustaceos", HasKey: "contem_crustaceos", MayKey: "pode_conter_crustaceos", BaseFilterKey: "sem_crustaceos", TracesFilterKey: "sem_tracos_crustaceos", Label: "Sem crustáceos", TracesLabel: "Sem traços de crustáceos"},
	{Name: "carne", HasKey: "contem_carne", BaseFilterKey: "sem_carne", Label: "Sem carne"},
	{Name: "origem_animal", HasKey: "origem_animal", BaseFilterKey: "sem_origem_animal", Label: "Sem origem animal"},
}

var (
	tracesToBase  = map[string]string{}
	baseToTraces  = map[string]string{}
	filterKeys    []string
	toggleKeys    = map[string]bool{}
	attributeKeys = map[string]bool{}
)

func init() {
	for _, c := range classes {
		filterKeys = append(filterKeys, c.BaseFilterKey)
		toggleKeys[c.BaseFilterKey] = true
		attributeKeys[c.HasKey] = true
		if c.HasTraces() {
			tracesToBase[c.TracesFilterKey] = c.BaseFilterKey
			baseToTraces[c.BaseFilterKey] = c.TracesFilterKey
			filterKeys = append(filterKeys, c.TracesFilterKey)
			toggleKeys[c.TracesFilterKey] = true
			attributeKeys[c.MayKey] = true
		}
	}
}

// Classes returns the attribute classes in display order. The slice is a
// fresh copy on every call.
func Classes() []AttributeClass {
	out := make([]AttributeClass, len(classes))
	copy(out, classes)
	return out
}

// FilterKeys returns every toggle key in class order, base before traces.
func FilterKeys() []string {
	out := make([]string, len(filterKeys))
	copy(out, filterKeys)
	return out
}

// IsFilterKey reports whether key names a toggle.
func IsFilterKey(key string) bool {
	return toggleKeys[key]
}

// IsAttributeKey reports whether key is a product attribute key known to
// some class.
func IsAttributeKey(key string) bool {
	return attributeKeys[key]
}

// ImpliedUpdates returns the toggles forced by setting changedKey to
// newValue: enabling a traces toggle enables its base toggle, disabling a
// base toggle disables its traces toggle. Any other change implies nothing.
func ImpliedUpdates(changedKey string, newValue bool) map[string]bool {
	out := map[string]bool{}
	if newValue {
		if base, ok := tracesToBase[changedKey]; ok {
			out[base] = true
		}
		return out
	}
	if traces, ok := baseToTraces[changedKey]; ok {
		out[traces] = false
	}
	return out
}
