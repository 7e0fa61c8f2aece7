package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

// Line is one product row of an order email
type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderSummary is the data behind the order confirmation email
type OrderSummary struct {
	OrderID    int
	ClientName string
	Lines      []Line
}

func (o OrderSummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// StatusUpdate is the data behind the status change email
type StatusUpdate struct {
	OrderID    int
	ClientName string
	From       string
	To         string
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

const layout = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1f2937; padding: 24px; border-radius: 8px 8px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">{{template "title" .}}</h1>
	</div>
	<div style="padding: 24px; border: 1px solid #eee; border-top: none; border-radius: 0 0 8px 8px;">
		<p style="margin-top: 0;">Hello {{.ClientName}},</p>
		{{template "content" .}}
		<hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">This message was sent automatically by WebStore.</p>
	</div>
</body>
</html>`

var confirmationTmpl = template.Must(template.Must(template.New("layout").Funcs(funcs).Parse(layout)).Parse(`
{{define "title"}}Thank you for your order{{end}}
{{define "content"}}
<p>We received order <strong>#{{.OrderID}}</strong>. It is pending confirmation.</p>
<table style="width: 100%; border-collapse: collapse;">
	<thead>
		<tr style="background: #f8f9fa;">
			<th style="padding: 8px; text-align: left;">Product</th>
			<th style="padding: 8px; text-align: center;">Qty</th>
			<th style="padding: 8px; text-align: right;">Unit price</th>
			<th style="padding: 8px; text-align: right;">Subtotal</th>
		</tr>
	</thead>
	<tbody>
	{{range .Lines}}
		<tr>
			<td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">{{money .UnitPrice}}</td>
			<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">{{money .Subtotal}}</td>
		</tr>
	{{end}}
	</tbody>
</table>
<p style="text-align: right; font-size: 18px;"><strong>Total: {{money .Total}}</strong></p>
{{end}}`))

var statusTmpl = template.Must(template.Must(template.New("layout").Funcs(funcs).Parse(layout)).Parse(`
{{define "title"}}Order #{{.OrderID}} update{{end}}
{{define "content"}}
<p>The status of order <strong>#{{.OrderID}}</strong> changed from {{.From}} to <strong>{{.To}}</strong>.</p>
{{end}}`))

func RenderOrderConfirmation(o OrderSummary) (string, error) {
	return render(confirmationTmpl, o)
}

func RenderStatusUpdate(u StatusUpdate) (string, error) {
	return render(statusTmpl, u)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
