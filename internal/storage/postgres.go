// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/xandekoch/scraper-leilao-caixa/internal/config"
	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
)

// Repository persists and reads back scraped properties.
type Repository interface {
	Save(ctx context.Context, properties []domain.Property) (int, error)
	FindAll(ctx context.Context) ([]domain.Property, error)
	Close() error
}

// PostgresRepository stores properties in a single upsert-keyed table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(cfg config.DatabaseConfig) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := &PostgresRepository{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Save upserts all properties keyed on the site's property number. Rows
// without an id are skipped. Returns the number of rows written.
func (r *PostgresRepository) Save(ctx context.Context, properties []domain.Property) (int, error) {
	if len(properties) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO imoveis (
			numero_imovel, uf, cidade, bairro, endereco, titulo,
			preco, valor_avaliacao, desconto, descricao, modalidade_venda,
			link_acesso, foto, tipo_imovel, quartos, vagas_garagem,
			area_total, area_privativa, area_terreno,
			matricula, oficio, inscricao_imobiliaria, comarca, situacao,
			aceita_fgts, aceita_financiamento, documentos, fotos, coletado_em
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29)
		ON CONFLICT (numero_imovel) DO UPDATE SET
			uf = EXCLUDED.uf,
			cidade = EXCLUDED.cidade,
			bairro = EXCLUDED.bairro,
			endereco = EXCLUDED.endereco,
			titulo = EXCLUDED.titulo,
			preco = EXCLUDED.preco,
			valor_avaliacao = EXCLUDED.valor_avaliacao,
			desconto = EXCLUDED.desconto,
			descricao = EXCLUDED.descricao,
			modalidade_venda = EXCLUDED.modalidade_venda,
			link_acesso = EXCLUDED.link_acesso,
			foto = EXCLUDED.foto,
			tipo_imovel = EXCLUDED.tipo_imovel,
			quartos = EXCLUDED.quartos,
			vagas_garagem = EXCLUDED.vagas_garagem,
			area_total = EXCLUDED.area_total,
			area_privativa = EXCLUDED.area_privativa,
			area_terreno = EXCLUDED.area_terreno,
			matricula = EXCLUDED.matricula,
			oficio = EXCLUDED.oficio,
			inscricao_imobiliaria = EXCLUDED.inscricao_imobiliaria,
			comarca = EXCLUDED.comarca,
			situacao = EXCLUDED.situacao,
			aceita_fgts = EXCLUDED.aceita_fgts,
			aceita_financiamento = EXCLUDED.aceita_financiamento,
			documentos = EXCLUDED.documentos,
			fotos = EXCLUDED.fotos,
			coletado_em = EXCLUDED.coletado_em,
			atualizado_em = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	total := 0
	for _, p := range properties {
		if p.ID == "" {
			continue
		}
		docs, merr := json.Marshal(p.Documents)
		if merr != nil {
			docs = []byte("[]")
		}
		photos, merr := json.Marshal(p.Photos)
		if merr != nil {
			photos = []byte("[]")
		}
		if _, err = stmt.ExecContext(ctx,
			p.ID, p.State, p.City, p.District, p.Address, p.Title,
			p.Price, p.Appraisal, p.Discount, p.Description, p.SaleMode,
			p.Link, p.Thumbnail, p.PropertyType, p.Bedrooms, p.GarageSpots,
			p.TotalArea, p.PrivateArea, p.LandArea,
			p.Registration, p.RegistryOffice, p.TaxID, p.Comarca, p.Situation,
			p.AcceptsFGTS, p.AcceptsFinancing, docs, photos, p.ScrapedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert imovel %q: %w", p.ID, err)
		}
		total++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return total, nil
}

// FindAll returns every stored property, newest first.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT numero_imovel, uf, cidade, bairro, endereco, titulo,
			preco, valor_avaliacao, desconto, descricao, modalidade_venda,
			link_acesso, foto, tipo_imovel, quartos, vagas_garagem,
			area_total, area_privativa, area_terreno,
			matricula, oficio, inscricao_imobiliaria, comarca, situacao,
			aceita_fgts, aceita_financiamento, documentos, fotos, coletado_em
		FROM imoveis
		ORDER BY coletado_em DESC, numero_imovel`)
	if err != nil {
		return nil, fmt.Errorf("query imoveis: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		var p domain.Property
		var docs, photos []byte
		if err := rows.Scan(
			&p.ID, &p.State, &p.City, &p.District, &p.Address, &p.Title,
			&p.Price, &p.Appraisal, &p.Discount, &p.Description, &p.SaleMode,
			&p.Link, &p.Thumbnail, &p.PropertyType, &p.Bedrooms, &p.GarageSpots,
			&p.TotalArea, &p.PrivateArea, &p.LandArea,
			&p.Registration, &p.RegistryOffice, &p.TaxID, &p.Comarca, &p.Situation,
			&p.AcceptsFGTS, &p.AcceptsFinancing, &docs, &photos, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan imovel: %w", err)
		}
		_ = json.Unmarshal(docs, &p.Documents)
		_ = json.Unmarshal(photos, &p.Photos)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS imoveis (
			id BIGSERIAL PRIMARY KEY,
			numero_imovel TEXT NOT NULL UNIQUE,
			uf TEXT NOT NULL DEFAULT '',
			cidade TEXT NOT NULL DEFAULT '',
			bairro TEXT NOT NULL DEFAULT '',
			endereco TEXT NOT NULL DEFAULT '',
			titulo TEXT NOT NULL DEFAULT '',
			preco NUMERIC(14,2) NOT NULL DEFAULT 0,
			valor_avaliacao NUMERIC(14,2) NOT NULL DEFAULT 0,
			desconto NUMERIC(6,2) NOT NULL DEFAULT 0,
			descricao TEXT NOT NULL DEFAULT '',
			modalidade_venda TEXT NOT NULL DEFAULT '',
			link_acesso TEXT NOT NULL DEFAULT '',
			foto TEXT NOT NULL DEFAULT '',
			tipo_imovel TEXT NOT NULL DEFAULT '',
			quartos INT NOT NULL DEFAULT 0,
			vagas_garagem INT NOT NULL DEFAULT 0,
			area_total NUMERIC(12,2) NOT NULL DEFAULT 0,
			area_privativa NUMERIC(12,2) NOT NULL DEFAULT 0,
			area_terreno NUMERIC(12,2) NOT NULL DEFAULT 0,
			matricula TEXT NOT NULL DEFAULT '',
			oficio TEXT NOT NULL DEFAULT '',
			inscricao_imobiliaria TEXT NOT NULL DEFAULT '',
			comarca TEXT NOT NULL DEFAULT '',
			situacao TEXT NOT NULL DEFAULT '',
			aceita_fgts BOOLEAN NOT NULL DEFAULT FALSE,
			aceita_financiamento BOOLEAN NOT NULL DEFAULT FALSE,
			documentos JSONB NOT NULL DEFAULT '[]',
			fotos JSONB NOT NULL DEFAULT '[]',
			coletado_em TIMESTAMPTZ NOT NULL,
			criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			atualizado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_imoveis_uf_cidade ON imoveis(uf, cidade);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
