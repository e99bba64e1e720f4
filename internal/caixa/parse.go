// internal/caixa/parse.go
package caixa

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/xandekoch/scraper-leilao-caixa/internal/domain"
)

var (
	detailIDRe = regexp.MustCompile(`detalhe_imovel\(\s*(\d+)\s*\)`)
	moneyRe    = regexp.MustCompile(`R\$\s*([\d.]+,\d{2})`)
	discountRe = regexp.MustCompile(`desconto de\s*([\d.,]+)\s*%`)
	areaRe     = regexp.MustCompile(`([\d.]+,\d+)\s*m`)
	exibeDocRe = regexp.MustCompile(`ExibeDoc\('([^']+)'\)`)
	digitsRe   = regexp.MustCompile(`\d+`)
	// "RUA X, N. 100, BAIRRO - CIDADE/UF"
	addressRe = regexp.MustCompile(`^(.+?)\s*-\s*([^/-]+)/([A-Z]{2})\.?$`)
)

// ParseSearchResponse extracts the pagination tokens from the search
// endpoint's response. Zero results yield an empty token list, not an error;
// missing counters mean the page shape changed and are an error.
func ParseSearchResponse(r io.Reader) (*domain.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	totalRaw := strings.TrimSpace(doc.Find("#hdnQtdRegistros").AttrOr("value", ""))
	pagesRaw := strings.TrimSpace(doc.Find("#hdnQtdPag").AttrOr("value", ""))
	if totalRaw == "" || pagesRaw == "" {
		return nil, fmt.Errorf("response missing result counters")
	}

	total, err := strconv.Atoi(totalRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid record count %q", totalRaw)
	}
	pages, err := strconv.Atoi(pagesRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid page count %q", pagesRaw)
	}

	res := &domain.SearchResult{Total: total}
	for i := 1; i <= pages; i++ {
		token := doc.Find(fmt.Sprintf("#hdnImov%d", i)).AttrOr("value", "")
		if token == "" {
			return nil, fmt.Errorf("page token %d of %d missing", i, pages)
		}
		res.Pages = append(res.Pages, domain.PageToken(token))
	}
	return res, nil
}

// ParseListPage extracts result cards from one listing-page fragment.
// Cards without a recognizable property id are skipped and counted.
func ParseListPage(r io.Reader, baseURL string) ([]domain.Property, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse html: %w", err)
	}

	var props []domain.Property
	skipped := 0

	doc.Find("li.group-block-item").Each(func(_ int, card *goquery.Selection) {
		m := detailIDRe.FindStringSubmatch(card.Find("a[onclick]").First().AttrOr("onclick", ""))
		if m == nil {
			skipped++
			return
		}

		p := domain.Property{
			ID:        m[1],
			Title:     cleanText(card.Find("b").First().Text()),
			Thumbnail: absURL(baseURL, card.Find("img").First().AttrOr("src", "")),
			Link:      fmt.Sprintf("%s/sistema/detalhe-imovel.asp?hdnOrigem=index&hdnimovel=%s", baseURL, m[1]),
			ScrapedAt: time.Now().UTC(),
		}

		card.Find("font").Each(func(_ int, line *goquery.Selection) {
			txt := cleanText(line.Text())
			if txt == "" {
				return
			}
			switch {
			case containsFold(txt, "valor de avaliação"):
				p.Appraisal = parseMoney(txt)
			case containsFold(txt, "valor mínimo"), containsFold(txt, "valor de venda"):
				p.Price = parseMoney(txt)
				p.Discount = parseDiscount(txt)
			case isSaleMode(txt):
				p.SaleMode = txt
			case addressRe.MatchString(txt):
				p.Address = txt
				p.District, p.City, p.State = splitAddress(txt)
			default:
				if p.Description == "" {
					p.Description = txt
				}
			}
		})

		props = append(props, p)
	})

	return props, skipped, nil
}

// ParseDetailPage extracts the extended fields of a detail page. Optional
// fields that are absent keep their zero values.
func ParseDetailPage(r io.Reader, baseURL string) (*domain.Property, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	p := &domain.Property{
		Title:     cleanText(doc.Find("h5").First().Text()),
		ScrapedAt: time.Now().UTC(),
	}

	// A página de detalhe é uma lista de pares "Rótulo: valor".
	fields := labeledFields(doc)
	p.ID = fields["número do imóvel"]
	p.PropertyType = fields["tipo de imóvel"]
	p.Registration = fields["matrícula(s)"]
	p.Comarca = fields["comarca"]
	p.RegistryOffice = fields["ofício"]
	p.TaxID = fields["inscrição imobiliária"]
	p.Situation = fields["situação"]
	p.Address = fields["endereço"]
	p.Description = fields["descrição"]
	p.SaleMode = fields["modalidade de venda"]
	p.Bedrooms = parseInt(fields["quartos"])
	p.GarageSpots = parseInt(fields["garagem"])
	p.TotalArea = parseArea(fields["área total"])
	p.PrivateArea = parseArea(fields["área privativa"])
	p.LandArea = parseArea(fields["área do terreno"])
	p.Appraisal = parseMoney(fields["valor de avaliação"])
	if v, ok := fields["valor mínimo de venda"]; ok {
		p.Price = parseMoney(v)
		p.Discount = parseDiscount(v)
	}
	if p.Address != "" {
		p.District, p.City, p.State = splitAddress(p.Address)
	}

	rules := cleanText(doc.Text())
	p.AcceptsFGTS = acceptsClause(rules, "fgts")
	p.AcceptsFinancing = acceptsClause(rules, "financiamento")

	doc.Find("a[onclick]").Each(func(_ int, a *goquery.Selection) {
		m := exibeDocRe.FindStringSubmatch(a.AttrOr("onclick", ""))
		if m == nil {
			return
		}
		p.Documents = append(p.Documents, domain.Document{
			Label: cleanText(a.Text()),
			URL:   absURL(baseURL, m[1]),
		})
	})

	doc.Find("#galeria-imagens img").Each(func(_ int, img *goquery.Selection) {
		if src := img.AttrOr("src", ""); src != "" {
			p.Photos = append(p.Photos, absURL(baseURL, src))
		}
	})

	if p.ID == "" && p.Title == "" {
		return nil, fmt.Errorf("page has no recognizable property fields")
	}
	return p, nil
}

// fieldsMap is keyed by the lowercased label before the first colon.
type fieldsMap map[string]string

// labeledFields collects "Rótulo: valor" pairs from the page's paragraphs.
func labeledFields(doc *goquery.Document) fieldsMap {
	fields := fieldsMap{}
	doc.Find("p, span, div.control-item").Each(func(_ int, s *goquery.Selection) {
		// Só folhas: um nó com filhos estruturais repetiria o texto deles.
		if s.Children().Filter("p, span, div").Length() > 0 {
			return
		}
		txt := cleanText(s.Text())
		i := strings.Index(txt, ":")
		if i <= 0 || i == len(txt)-1 {
			return
		}
		key := strings.ToLower(strings.TrimSpace(txt[:i]))
		val := strings.TrimSpace(txt[i+1:])
		if key == "" || val == "" {
			return
		}
		if _, exists := fields[key]; !exists {
			fields[key] = val
		}
	})
	return fields
}

// parseMoney converts "R$ 1.234.567,89" to 1234567.89. Unparseable input
// yields 0.
func parseMoney(s string) float64 {
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return brNumber(m[1])
}

func parseDiscount(s string) float64 {
	m := discountRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return brNumber(m[1])
}

func parseArea(s string) float64 {
	m := areaRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return brNumber(m[1])
}

func parseInt(s string) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// brNumber parses Brazilian decimal notation (dot thousands, comma decimal).
func brNumber(s string) float64 {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// splitAddress breaks "RUA X, N. 100, BAIRRO - CIDADE/UF" into its locality
// parts. The district is taken as the last comma segment of the street part.
func splitAddress(addr string) (district, city, state string) {
	m := addressRe.FindStringSubmatch(addr)
	if m == nil {
		return "", "", ""
	}
	city = strings.TrimSpace(m[2])
	state = m[3]
	street := m[1]
	if i := strings.LastIndex(street, ","); i >= 0 && i < len(street)-1 {
		district = strings.TrimSpace(street[i+1:])
	}
	return district, city, state
}

var saleModes = []string{"leilão", "licitação", "venda online", "venda direta", "concorrência"}

func isSaleMode(s string) bool {
	for _, m := range saleModes {
		if strings.HasPrefix(strings.ToLower(s), m) {
			return true
		}
	}
	return false
}

// acceptsClause reports whether the rules text affirms acceptance of the
// given payment mechanism ("fgts" or "financiamento").
func acceptsClause(text, what string) bool {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, what)
	if idx < 0 {
		return false
	}
	// Só a oração que contém a menção: "não aceita FGTS, mas aceita
	// financiamento" nega o FGTS sem negar o financiamento.
	window := lower[:idx]
	if cut := strings.LastIndexAny(window, ",.;"); cut >= 0 {
		window = window[cut+1:]
	}
	if len(window) > 60 {
		window = window[len(window)-60:]
	}
	if strings.Contains(window, "não aceita") || strings.Contains(window, "não permite") {
		return false
	}
	return strings.Contains(window, "aceita") || strings.Contains(window, "permite")
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

var spaceRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func absURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
