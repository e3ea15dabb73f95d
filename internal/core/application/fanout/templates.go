package fanout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

const (
	templateAdminNewOrder          = "admin_new_order.html"
	templateCustomerShippingPriced = "customer_shipping_priced.html"
	templateAdminOrderConfirmed    = "admin_order_confirmed.html"
	templateAdminOrderCancelled    = "admin_order_cancelled.html"
	templateAdminPendingDigest     = "admin_pending_digest.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the transactional email bodies.
type Templates struct {
	set *template.Template
}

// ParseTemplates parses the embedded templates once at startup.
func ParseTemplates() (*Templates, error) {
	set, err := template.New("emails").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// MustParseTemplates panics when the embedded templates are broken.
func MustParseTemplates() *Templates {
	t, err := ParseTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
