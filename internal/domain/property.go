// internal/domain/property.go
package domain

import "time"

// Property is one auctioned real-estate unit as published by Caixa.
// JSON tags mirror the column names of the site's own CSV export.
type Property struct {
	ID          string  `json:"numero_imovel"`
	State       string  `json:"uf"`
	City        string  `json:"cidade"`
	District    string  `json:"bairro"`
	Address     string  `json:"endereco"`
	Title       string  `json:"titulo"`
	Price       float64 `json:"preco"`
	Appraisal   float64 `json:"valor_avaliacao"`
	Discount    float64 `json:"desconto"`
	Description string  `json:"descricao"`
	SaleMode    string  `json:"modalidade_venda"`
	Link        string  `json:"link_acesso"`
	Thumbnail   string  `json:"foto,omitempty"`

	// Campos extras da página de detalhe
	PropertyType     string     `json:"tipo_imovel,omitempty"`
	Bedrooms         int        `json:"quartos,omitempty"`
	GarageSpots      int        `json:"vagas_garagem,omitempty"`
	TotalArea        float64    `json:"area_total,omitempty"`
	PrivateArea      float64    `json:"area_privativa,omitempty"`
	LandArea         float64    `json:"area_terreno,omitempty"`
	Registration     string     `json:"matricula,omitempty"`
	RegistryOffice   string     `json:"oficio,omitempty"`
	Comarca          string     `json:"comarca,omitempty"`
	TaxID            string     `json:"inscricao_imobiliaria,omitempty"`
	Situation        string     `json:"situacao,omitempty"`
	AcceptsFGTS      bool       `json:"aceita_fgts"`
	AcceptsFinancing bool       `json:"aceita_financiamento"`
	Documents        []Document `json:"documentos,omitempty"`
	Photos           []string   `json:"fotos,omitempty"`

	ScrapedAt time.Time `json:"coletado_em"`
}

// Document is a downloadable attachment on a detail page (edital, matrícula).
type Document struct {
	Label string `json:"rotulo"`
	URL   string `json:"url"`
}

// SearchFilter holds the form fields replayed against the search endpoint.
// Empty values are sent as-is; the site treats them as "any".
type SearchFilter struct {
	State        string `yaml:"uf"`
	CityCode     string `yaml:"cidade"`
	District     string `yaml:"bairro"`
	PropertyType string `yaml:"tipo_imovel"`
	PriceBand    string `yaml:"faixa_valor"`
	Bedrooms     string `yaml:"quartos"`
	Garage       string `yaml:"vagas_garagem"`
	UsableArea   string `yaml:"area_util"`
}

// PageToken is an opaque pagination token returned by the listing search.
// It is passed back to the listing endpoint exactly as extracted.
type PageToken string

// SearchResult is the outcome of the initial listing search.
type SearchResult struct {
	Total int
	Pages []PageToken
}
