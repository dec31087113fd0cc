package domain

import "fmt"

// ReportKind names one of the server-generated reports.
type ReportKind string

const (
	ReportProductsPDF   ReportKind = "products-pdf"
	ReportProductsExcel ReportKind = "products-excel"
	ReportCategoriesPDF ReportKind = "categories-pdf"
	ReportUsersExcel    ReportKind = "users-excel"
	ReportInventoryPDF  ReportKind = "inventory-pdf"
)

var reportPaths = map[ReportKind]string{
	ReportProductsPDF:   "/reports/products/pdf/mobile",
	ReportProductsExcel: "/reports/products/excel/mobile",
	ReportCategoriesPDF: "/reports/categories/pdf/mobile",
	ReportUsersExcel:    "/reports/users/excel/mobile",
	ReportInventoryPDF:  "/reports/inventory/pdf/mobile",
}

// ReportKinds lists every kind in a stable order.
func ReportKinds() []ReportKind {
	return []ReportKind{
		ReportProductsPDF,
		ReportProductsExcel,
		ReportCategoriesPDF,
		ReportUsersExcel,
		ReportInventoryPDF,
	}
}

// Path returns the endpoint that generates the report.
func (k ReportKind) Path() (string, error) {
	p, ok := reportPaths[k]
	if !ok {
		return "", fmt.Errorf("%w: unknown report %q", ErrValidation, k)
	}
	return p, nil
}

// Report is the generated file as delivered by the server: the content is
// base64 encoded in the JSON body.
type Report struct {
	Success    bool   `json:"success"`
	FileName   string `json:"fileName"`
	Base64Data string `json:"base64Data"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
	Message    string `json:"message,omitempty"`
}

// SavedReport describes a report written to local disk.
type SavedReport struct {
	Path     string
	FileName string
	Size     int64
	MimeType string
}

// ReportInfo is one entry of the available-reports listing.
type ReportInfo struct {
	Kind        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format"`
}
