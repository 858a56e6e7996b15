package catalog

import (
	"fmt"
	"math/rand"

	"github.com/aplv/catalogo-api/internal/models"
)

type productOpt func(*models.Product)

func withBrand(name string) productOpt {
	return func(p *models.Product) { p.Empresa = &models.Company{Nome: name} }
}

func withMarca(name string) productOpt {
	return func(p *models.Product) { p.Marca = name }
}

func withCategory(name string) productOpt {
	return func(p *models.Product) { p.Categoria = name }
}

func undeclared() productOpt {
	return func(p *models.Product) {
		p.Alergicos = ""
		p.Ingredientes = ""
		p.DescricaoIngredientes = ""
	}
}

func newProduct(slug, nome string, attrs models.Attributes, opts ...productOpt) models.Product {
	p := models.Product{
		Slug:      slug,
		Nome:      nome,
		Alergicos: "declarado",
		Atributos: attrs,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// allFree declares every attribute key of every class as free of.
func allFree() models.Attributes {
	attrs := models.Attributes{}
	for _, c := range classes {
		attrs[c.HasKey] = models.FreeOf
		if c.MayKey != "" {
			attrs[c.MayKey] = models.FreeOf
		}
	}
	return attrs
}

func randomCatalog(r *rand.Rand, n int) []models.Product {
	brands := []string{"Doce Vida", "Natural Já", "Vegana & Cia", ""}
	categories := []string{"Doces", "Salgados", "Bebidas", ""}
	states := []models.TriState{models.Unknown, models.FreeOf, models.Contains}
	names := []string{"Bolo de Cenoura", "Pão de Queijo", "Suco de Uva", "Biscoito Integral", "Chocolate Amargo"}

	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		attrs := models.Attributes{}
		for _, c := range classes {
			attrs[c.HasKey] = states[r.Intn(len(states))]
			if c.MayKey != "" {
				attrs[c.MayKey] = states[r.Intn(len(states))]
			}
		}
		p := newProduct(fmt.Sprintf("p-%d", i), names[r.Intn(len(names))], attrs,
			withBrand(brands[r.Intn(len(brands))]),
			withCategory(categories[r.Intn(len(categories))]))
		if r.Intn(4) == 0 {
			undeclared()(&p)
		}
		out = append(out, p)
	}
	return out
}

// randomWalk applies n random transitions from the default state.
func randomWalk(m *Model, r *rand.Rand, n int) FilterState {
	keys := FilterKeys()
	s := m.Default()
	for i := 0; i < n; i++ {
		var err error
		switch r.Intn(6) {
		case 0:
			s, err = m.Apply(s, KeySearch, []string{"", "bolo", "DE", "pão de", "a b&c=d"}[r.Intn(5)])
		case 1:
			s, err = m.Apply(s, KeyEmpresa, []string{"", "Doce Vida", "Vegana & Cia"}[r.Intn(3)])
		case 2:
			s, err = m.Apply(s, KeyCategoria, []string{"", "Doces", "Bebidas"}[r.Intn(3)])
		default:
			s, err = m.Apply(s, keys[r.Intn(len(keys))], r.Intn(2) == 0)
		}
		if err != nil {
			panic(err)
		}
	}
	return s
}
