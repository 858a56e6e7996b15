// internal/models/product.go
package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Company struct {
	BaseModel
	Nome string `json:"nome" gorm:"size:255;not null;uniqueIndex"`
	Site string `json:"site,omitempty" gorm:"size:512"`
}

func (Company) TableName() string {
	return "empresas"
}

type Product struct {
	BaseModel
	Slug                  string         `json:"slug" gorm:"size:200;not null;uniqueIndex"`
	Nome                  string         `json:"nome" gorm:"size:255;not null"`
	Marca                 string         `json:"marca,omitempty" gorm:"size:255"`
	EmpresaID             *uuid.UUID     `json:"-" gorm:"type:uuid;index"`
	Categoria             string         `json:"categoria,omitempty" gorm:"size:100;index"`
	URL                   string         `json:"url,omitempty" gorm:"size:1024"`
	Imagem                string         `json:"imagem,omitempty" gorm:"size:1024"`
	Descricao             string         `json:"descricao,omitempty" gorm:"type:text"`
	Ingredientes          string         `json:"ingredientes,omitempty" gorm:"type:text"`
	DescricaoIngredientes string         `json:"descricao_ingredientes,omitempty" gorm:"type:text"`
	Alergicos             string         `json:"alergicos,omitempty" gorm:"type:text"`
	Origem                pq.StringArray `json:"origem" gorm:"type:text[]"`
	Atributos             Attributes     `json:"atributos" gorm:"type:jsonb;not null;default:'{}'"`

	// Relationships
	Empresa *Company `json:"empresa,omitempty" gorm:"foreignKey:EmpresaID"`
}

func (Product) TableName() string {
	return "produtos"
}

// Brand is the company name when the product is linked to one, falling back
// to the flat marca column carried by older exports.
func (p *Product) Brand() string {
	if p.Empresa != nil && p.Empresa.Nome != "" {
		return p.Empresa.Nome
	}
	return p.Marca
}

// IsUnknown reports whether the product declares neither allergens nor
// ingredients. Dietary filters must not treat such products as safe.
func (p *Product) IsUnknown() bool {
	return blank(p.Alergicos) && blank(p.Ingredientes) && blank(p.DescricaoIngredientes)
}

func (p *Product) Attr(key string) TriState {
	return p.Atributos.Get(key)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
