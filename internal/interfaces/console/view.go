package console

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

// PlainView renders holdings the way the interactive shell prints them.
func PlainView(holdings []domain.Holding) string {
	var sb strings.Builder
	sb.WriteString("Your Portfolio:\n\n")
	for _, h := range holdings {
		fmt.Fprintf(&sb, "Symbol: %s\n", h.Symbol)
		fmt.Fprintf(&sb, "Quantity: %d\n", h.Quantity)
		if h.LastPrice.Valid {
			fmt.Fprintf(&sb, "Current Price: %s\n", h.LastPrice.Decimal.StringFixed(domain.ValuePlaces))
		}
		if h.LastValue.Valid {
			fmt.Fprintf(&sb, "Total Value: %s\n", h.LastValue.Decimal.StringFixed(domain.ValuePlaces))
		}
		sb.WriteString("-----------\n")
	}
	sb.WriteString(Separator)
	return sb.String()
}

type viewRow struct {
	Symbol   string
	Quantity string
	Price    string
	Value    string
	PricedAt string
}

type viewData struct {
	Rows  []viewRow
	Total string
	Stale int
}

var viewTemplate = template.Must(template.New("view").Parse(`# Portfolio

{{if .Rows -}}
| Symbol | Quantity | Price | Value | Priced at |
|:-------|---------:|------:|------:|:----------|
{{range .Rows -}}
| {{.Symbol}} | {{.Quantity}} | {{.Price}} | {{.Value}} | {{.PricedAt}} |
{{end}}
**Total value:** {{.Total}}
{{- if .Stale}}

_{{.Stale}} holding(s) have never been priced._
{{- end}}
{{else -}}
Your portfolio is empty!
{{end}}`))

// ViewMarkdown renders holdings as a markdown table valued in currency.
func ViewMarkdown(holdings []domain.Holding, currency string) string {
	data := viewData{}
	total := decimal.Zero
	for _, h := range holdings {
		row := viewRow{
			Symbol:   h.Symbol,
			Quantity: strconv.FormatInt(h.Quantity, 10),
			Price:    "-",
			Value:    "-",
			PricedAt: "-",
		}
		if h.LastPrice.Valid {
			row.Price = FormatMoney(h.LastPrice.Decimal, currency)
		} else {
			data.Stale++
		}
		if h.LastValue.Valid {
			row.Value = FormatMoney(h.LastValue.Decimal, currency)
			total = total.Add(h.LastValue.Decimal)
		}
		if !h.PricedAt.IsZero() {
			row.PricedAt = h.PricedAt.Local().Format(time.DateTime)
		}
		data.Rows = append(data.Rows, row)
	}
	data.Total = FormatMoney(total, currency)

	var sb strings.Builder
	// the template only reads plain strings
	_ = viewTemplate.Execute(&sb, data)
	return sb.String()
}

// RenderMarkdown styles markdown for a terminal. style is a glamour standard
// style name ("dark", "light", "notty", ...) or "auto".
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
