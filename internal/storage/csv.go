// internal/storage/csv.go
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
)

// csvHeader follows the column names of the site's own CSV export.
var csvHeader = []string{
	"numero_imovel", "uf", "cidade", "bairro", "endereco", "titulo",
	"preco", "valor_avaliacao", "desconto", "descricao",
	"modalidade_venda", "link_acesso", "foto",
	"tipo_imovel", "quartos", "vagas_garagem",
	"area_total", "area_privativa", "area_terreno",
	"matricula", "oficio", "inscricao_imobiliaria", "comarca", "situacao",
	"aceita_fgts", "aceita_financiamento", "coletado_em",
}

// WriteCSV writes all properties to path as one flat table, creating parent
// directories as needed. Returns the number of data rows written.
func WriteCSV(path string, properties []domain.Property) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return 0, err
	}

	total := 0
	for _, p := range properties {
		if p.ID == "" {
			continue
		}
		row := []string{
			p.ID, p.State, p.City, p.District, p.Address, p.Title,
			brMoney(p.Price), brMoney(p.Appraisal), brMoney(p.Discount), p.Description,
			p.SaleMode, p.Link, p.Thumbnail,
			p.PropertyType, strconv.Itoa(p.Bedrooms), strconv.Itoa(p.GarageSpots),
			brMoney(p.TotalArea), brMoney(p.PrivateArea), brMoney(p.LandArea),
			p.Registration, p.RegistryOffice, p.TaxID, p.Comarca, p.Situation,
			boolRow(p.AcceptsFGTS), boolRow(p.AcceptsFinancing),
			p.ScrapedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return total, err
		}
		total++
	}
	return total, w.Error()
}

// brMoney renders numbers the way the site publishes them (comma decimal).
func brMoney(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func boolRow(b bool) string {
	if b {
		return "sim"
	}
	return "nao"
}
