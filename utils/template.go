package utils

import "strings"

// TemplateData is keyed by the camelCase field names the client sends,
// e.g. {"partyName": "Acme", "invoiceNo": "INV-7"}.
type TemplateData map[string]string

type placeholder struct {
	token    string
	key      string
	fallback string
}

var placeholders = []placeholder{
	{"{Txn_Date}", "txnDate", ""},
	{"{Party_Name}", "partyName", ""},
	{"{Invoice_No}", "invoiceNo", ""},
	{"{Invoice_Amount}", "invoiceAmount", "0"},
	{"{Party_Balance}", "partyBalance", "0"},
	{"{Due_Date}", "dueDate", ""},
	{"{Firm_Name}", "firmName", ""},
	{"{Firm_Phone}", "firmPhone", ""},
}

// Placeholders lists the tokens RenderTemplate understands.
func Placeholders() []string {
	out := make([]string, len(placeholders))
	for i, p := range placeholders {
		out[i] = p.token
	}
	return out
}

// RenderTemplate substitutes every known token in a single pass, so values
// that happen to contain a token are not expanded again.
func RenderTemplate(template string, data TemplateData) string {
	pairs := make([]string, 0, len(placeholders)*2)
	for _, p := range placeholders {
		v, ok := data[p.key]
		if !ok || v == "" {
			v = p.fallback
		}
		pairs = append(pairs, p.token, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
