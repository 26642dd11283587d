// Package i18n maps stable error codes to human messages. Portuguese is the
// default; English is available through Accept-Language or ?lang=.
package i18n

import (
	"context"
	"strings"
)

const (
	Portuguese = "pt"
	English    = "en"

	Default = Portuguese
)

var messages = map[string]map[string]string{
	Portuguese: {
		"invalid_json":              "JSON inválido",
		"validation_error":          "Dados obrigatórios ausentes ou inválidos",
		"required":                  "Obrigatório",
		"must_be_non_negative":      "Não pode ser negativo",
		"reserved":                  "Valor reservado",
		"total_mismatch":            "O total não confere com a soma dos itens",
		"missing_number":            "Número do orçamento não informado",
		"quote_not_found":           "Orçamento não encontrado",
		"data_store_not_configured": "Banco de dados não configurado. Defina DATABASE_URL e DATABASE_SERVICE_KEY",
		"storage_not_configured":    "Armazenamento não configurado. Defina STORAGE_PROVIDER",
		"webhook_not_configured":    "Webhook não configurado. Defina WEBHOOK_URL e WEBHOOK_TOKEN",
		"webhook_failed":            "Falha ao notificar o webhook",
		"missing_file":              "Envie o arquivo no campo 'file'",
		"invalid_image":             "Arquivo de imagem inválido",
		"file_too_large":            "Arquivo muito grande",
		"upload_failed":             "Falha ao subir a logo",
		"logo_not_saved":            "Upload feito, mas falhou ao salvar logo",
		"name_required":             "Campo 'name' é obrigatório",
		"pdf_failed":                "Erro ao gerar PDF",
		"export_failed":             "Erro ao exportar orçamentos",
		"internal_error":            "Erro interno",
	},
	English: {
		"invalid_json":              "Invalid JSON",
		"validation_error":          "Missing or invalid fields",
		"required":                  "Required",
		"must_be_non_negative":      "Must not be negative",
		"reserved":                  "Reserved value",
		"total_mismatch":            "Total does not match the sum of the items",
		"missing_number":            "Quote number is missing",
		"quote_not_found":           "Quote not found",
		"data_store_not_configured": "Data store not configured. Set DATABASE_URL and DATABASE_SERVICE_KEY",
		"storage_not_configured":    "Storage not configured. Set STORAGE_PROVIDER",
		"webhook_not_configured":    "Webhook not configured. Set WEBHOOK_URL and WEBHOOK_TOKEN",
		"webhook_failed":            "Webhook notification failed",
		"missing_file":              "Send the file in the 'file' field",
		"invalid_image":             "Invalid image file",
		"file_too_large":            "File too large",
		"upload_failed":             "Logo upload failed",
		"logo_not_saved":            "Logo uploaded but could not be saved",
		"name_required":             "Field 'name' is required",
		"pdf_failed":                "Failed to generate PDF",
		"export_failed":             "Failed to export quotes",
		"internal_error":            "Internal error",
	},
}

// T returns the message for code in lang, falling back to Portuguese and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks the first supported primary tag of an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(primary) {
			return primary
		}
	}
	return Default
}

type ctxKey struct{}

// WithLang stores lang in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored by WithLang, or Default.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}
