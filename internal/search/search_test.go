package search

import (
	"testing"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"João da Silva", "joaodasilva"},
		{"joao-da-silva", "joaodasilva"},
		{"ORC-123", "orc123"},
		{"(11) 98765-4321", "11987654321"},
		{"ABC-1D23", "abc1d23"},
		{"Açúcar Ênfase ñ", "acucarenfasen"},
		{"   ---   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func quotes() []models.Quote {
	return []models.Quote{
		*models.NewQuote("ORC-123", "2024-05-10T10:00:00Z", models.CompanySnapshot{},
			models.ClientData{Name: "João da Silva", Phone: "(11) 98765-4321", Vehicle: "Gol", Plate: "ABC-1D23"},
			[]models.Item{{Description: "Troca de pastilhas"}}, 0),
		*models.NewQuote("ORC-124", "2024-05-11T10:00:00Z", models.CompanySnapshot{},
			models.ClientData{Name: "Maria Souza", Phone: "(21) 91234-5678", Vehicle: "Onix", Plate: "XYZ-9A87"},
			[]models.Item{{Description: "Alinhamento"}, {Description: "Balanceamento"}}, 0),
	}
}

func TestMatch(t *testing.T) {
	qs := quotes()
	tests := []struct {
		name  string
		query string
		want  []bool
	}{
		{"accent-insensitive name", "joao-da-silva", []bool{true, false}},
		{"unformatted number", "orc123", []bool{true, false}},
		{"partial phone", "98765", []bool{true, false}},
		{"formatted phone", "(21) 9123", []bool{false, true}},
		{"plate without hyphen", "xyz9a", []bool{false, true}},
		{"item description", "balance", []bool{false, true}},
		{"vehicle", "ONIX", []bool{false, true}},
		{"shared prefix", "orc-12", []bool{true, true}},
		{"no hit", "civic", []bool{false, false}},
		{"punctuation only", "--", []bool{true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range qs {
				assert.Equal(t, tt.want[i], Match(&qs[i], tt.query), "quote %s", qs[i].Number)
			}
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	qs := quotes()
	got := Filter(qs, "orc")
	require.Len(t, got, 2)
	assert.Equal(t, "ORC-123", got[0].Number)
	assert.Equal(t, "ORC-124", got[1].Number)

	got = Filter(qs, "maria")
	require.Len(t, got, 1)
	assert.Equal(t, "ORC-124", got[0].Number)

	assert.Empty(t, Filter(qs, "zzz"))
	assert.Len(t, Filter(qs, ""), 2)
}
