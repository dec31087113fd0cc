package fakeapi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type reportSpec struct {
	name        string
	description string
	format      string
	render      func(s *Store) []byte
}

var reportSpecs = map[domain.ReportKind]reportSpec{
	domain.ReportProductsPDF:   {"Products", "Product catalog with prices and stock", "pdf", renderProducts},
	domain.ReportProductsExcel: {"Products", "Product catalog spreadsheet", "xlsx", renderProducts},
	domain.ReportCategoriesPDF: {"Categories", "Categories with product counts", "pdf", renderCategories},
	domain.ReportUsersExcel:    {"Users", "Registered accounts", "xlsx", renderUsers},
	domain.ReportInventoryPDF:  {"Inventory", "Stock levels per product", "pdf", renderInventory},
}

type reportHandler struct {
	store *Store
	now   func() time.Time
}

func (h *reportHandler) Available(c echo.Context) error {
	out := make([]domain.ReportInfo, 0, len(reportSpecs))
	for _, kind := range domain.ReportKinds() {
		spec := reportSpecs[kind]
		out = append(out, domain.ReportInfo{
			Kind:        string(kind),
			Name:        spec.name,
			Description: spec.description,
			Format:      spec.format,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// generate renders the report and returns it base64-encoded in JSON.
// The documents are plain text dressed with the right extension.
func (h *reportHandler) generate(kind domain.ReportKind) echo.HandlerFunc {
	spec := reportSpecs[kind]
	return func(c echo.Context) error {
		body := spec.render(h.store)
		mimeType := mimeXLSX
		if spec.format == "pdf" {
			mimeType = mimePDF
			body = append([]byte("%PDF-1.4\n"), body...)
		}
		name := fmt.Sprintf("%s_report_%s.%s", strings.ToLower(spec.name), h.now().Format("20060102_150405"), spec.format)
		return c.JSON(http.StatusOK, domain.Report{
			Success:    true,
			FileName:   name,
			Base64Data: base64.StdEncoding.EncodeToString(body),
			MimeType:   mimeType,
			Size:       int64(len(body)),
		})
	}
}

func renderProducts(s *Store) []byte {
	var b bytes.Buffer
	b.WriteString("id\tname\tcategory\tprice\tstock\n")
	for _, p := range s.Products(nil) {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.CategoryName, p.Price, p.Stock)
	}
	return b.Bytes()
}

func renderCategories(s *Store) []byte {
	var b bytes.Buffer
	b.WriteString("id\tname\tproducts\n")
	for _, c := range s.Categories() {
		fmt.Fprintf(&b, "%d\t%s\t%d\n", c.ID, c.Name, c.ProductCount)
	}
	return b.Bytes()
}

func renderUsers(s *Store) []byte {
	var b bytes.Buffer
	b.WriteString("id\tusername\temail\trole\tlocked\n")
	for _, u := range s.Accounts() {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.Role, u.Locked)
	}
	return b.Bytes()
}

func renderInventory(s *Store) []byte {
	var b bytes.Buffer
	var units int
	b.WriteString("id\tname\tstock\n")
	for _, p := range s.Products(nil) {
		units += p.Stock
		fmt.Fprintf(&b, "%d\t%s\t%d\n", p.ID, p.Name, p.Stock)
	}
	fmt.Fprintf(&b, "total units\t%d\n", units)
	return b.Bytes()
}
