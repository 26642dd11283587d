package pdf

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuote() *models.Quote {
	return models.NewQuote("ORC-1715351400000", "2024-05-10T14:30:00.000Z",
		models.CompanySnapshot{Name: "Oficina Central", CNPJ: "11.222.333/0001-81", Phone: "(11) 3333-4444", Email: "contato@oficina.com", Address: "Rua A, 10"},
		models.ClientData{Name: "João da Silva", Phone: "(11) 98765-4321", Vehicle: "Gol", Plate: "ABC-1D23"},
		[]models.Item{
			{ID: 1, Description: "Troca de óleo", Quantity: 1, UnitPrice: 120},
			{ID: 2, Description: "Filtro de ar", Quantity: 2, UnitPrice: 35.5},
		},
		191,
	)
}

func plainRenderer(t *testing.T) *Renderer {
	r, err := NewRenderer("")
	require.NoError(t, err)
	r.uncompressed = true
	return r
}

// cp1252 turns UTF-8 text into the escaped bytes a core-font Tj operator carries.
func cp1252(s string) string {
	return strings.NewReplacer(
		"ç", "\xe7", "á", "\xe1", "í", "\xed", "é", "\xe9", "ã", "\xe3", "ó", "\xf3",
		"R$ ", "R$\xa0", "(", `\(`, ")", `\)`,
	).Replace(s)
}

func TestQuotePDFSignature(t *testing.T) {
	out, err := QuotePDF(sampleQuote())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestQuotePDFDeterministic(t *testing.T) {
	a, err := QuotePDF(sampleQuote())
	require.NoError(t, err)
	b, err := QuotePDF(sampleQuote())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestQuotePDFNil(t *testing.T) {
	out, err := QuotePDF(nil)
	assert.ErrorIs(t, err, ErrRender)
	assert.Nil(t, out)
}

func TestRenderLayoutText(t *testing.T) {
	out, err := plainRenderer(t).Render(sampleQuote())
	require.NoError(t, err)
	body := string(out)

	for _, want := range []string{
		"Oficina Central",
		"CNPJ: 11.222.333/0001-81",
		"(11) 3333-4444  |  contato@oficina.com",
		"Orçamento ORC-1715351400000",
		"10/05/2024, 11:30:00",
		"Dados do Cliente",
		"Nome: João da Silva",
		"Telefone: (11) 98765-4321",
		"Veículo: Gol",
		"Placa: ABC-1D23",
		"Itens do Orçamento",
		"Descrição", "Qtd", "Unitário",
		"Troca de óleo",
		"R$ 120,00",
		"R$ 35,50",
		"R$ 71,00",
		"TOTAL:",
		"R$ 191,00",
		"Orçamento válido por 15 dias.",
	} {
		assert.Contains(t, body, cp1252(want))
	}
}

func TestRenderTimezone(t *testing.T) {
	r, err := NewRenderer("UTC")
	require.NoError(t, err)
	r.uncompressed = true
	out, err := r.Render(sampleQuote())
	require.NoError(t, err)
	assert.Contains(t, string(out), "10/05/2024, 14:30:00")

	_, err = NewRenderer("Mars/Olympus")
	assert.Error(t, err)
}

func TestRenderUnparsableDate(t *testing.T) {
	q := sampleQuote()
	q.Date = "ontem"
	out, err := plainRenderer(t).Render(q)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ontem")

	again, err := plainRenderer(t).Render(q)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRenderClipsLongDescriptions(t *testing.T) {
	q := sampleQuote()
	long := strings.Repeat("Substituição completa do sistema de freios ", 10)
	q.Items = models.NewQuote("", "", models.CompanySnapshot{}, models.ClientData{}, []models.Item{{Description: long, Quantity: 1, UnitPrice: 191}}, 0).Items
	out, err := plainRenderer(t).Render(q)
	require.NoError(t, err)
	assert.NotContains(t, string(out), cp1252(long))
	assert.Contains(t, string(out), "\x85")
}

func TestRenderManyItemsPaginates(t *testing.T) {
	q := sampleQuote()
	items := make([]models.Item, 120)
	for i := range items {
		items[i] = models.Item{ID: int64(i), Description: "Peça", Quantity: 1, UnitPrice: 1}
	}
	q.Items = models.NewQuote("", "", models.CompanySnapshot{}, models.ClientData{}, items, 0).Items
	out, err := plainRenderer(t).Render(q)
	require.NoError(t, err)
	assert.Greater(t, strings.Count(string(out), "/Type /Page\n"), 1)
}

func TestRenderConcurrent(t *testing.T) {
	want, err := QuotePDF(sampleQuote())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = QuotePDF(sampleQuote())
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		assert.Equal(t, want, got, "render %d", i)
	}
}
