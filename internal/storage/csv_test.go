// internal/storage/csv_test.go
package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saida", "imoveis.csv")

	props := []domain.Property{
		{
			ID:             "8555510867851",
			State:          "SP",
			City:           "SAO PAULO",
			District:       "VILA MARIANA",
			Address:        "RUA DOMINGOS DE MORAIS, N. 2781",
			Title:          "APARTAMENTO - SAO PAULO",
			Price:          180000,
			Appraisal:      250000.50,
			Discount:       28.2,
			SaleMode:       "Venda Online",
			Thumbnail:      "https://venda-imoveis.caixa.gov.br/fotos/F8555510867851_thumb.jpg",
			Bedrooms:       2,
			RegistryOffice: "14º OFICIO DE REGISTRO DE IMOVEIS",
			TaxID:          "041.123.0456-7",
			AcceptsFGTS:    true,
			ScrapedAt:      time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC),
		},
		{Title: "CARD SEM ID, NAO VIRA LINHA"},
		{ID: "777", State: "RJ"},
	}

	n, err := WriteCSV(path, props)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two data rows")

	assert.Equal(t, csvHeader, rows[0])

	first := rows[1]
	assert.Equal(t, "8555510867851", first[0])
	assert.Equal(t, "SP", first[1])
	assert.Equal(t, "VILA MARIANA", first[3])
	assert.Equal(t, "APARTAMENTO - SAO PAULO", first[5])
	assert.Equal(t, "180000,00", first[6])
	assert.Equal(t, "250000,50", first[7])
	assert.Equal(t, "28,20", first[8])
	assert.Equal(t, "Venda Online", first[10])
	assert.Equal(t, "https://venda-imoveis.caixa.gov.br/fotos/F8555510867851_thumb.jpg", first[12])
	assert.Equal(t, "2", first[14])
	assert.Equal(t, "14º OFICIO DE REGISTRO DE IMOVEIS", first[20])
	assert.Equal(t, "041.123.0456-7", first[21])
	assert.Equal(t, "sim", first[24])
	assert.Equal(t, "nao", first[25])
	assert.Equal(t, "2025-07-14 10:30:00", first[26])

	assert.Equal(t, "777", rows[2][0])
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imoveis.csv")

	n, err := WriteCSV(path, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
