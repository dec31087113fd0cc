package service

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

func TestReportService_Generate(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 test"))
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.Report{Success: true, FileName: "Reporte Productos.pdf", Base64Data: payload, MimeType: "application/pdf", Size: 13})
	svc := NewReportService(api, 0, zerolog.Nop())

	r, err := svc.Generate(context.Background(), domain.ReportProductsPDF)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if r.FileName != "Reporte Productos.pdf" {
		t.Fatalf("unexpected report %+v", r)
	}
	req := api.last(t)
	if req.Path != "/reports/products/pdf/mobile" || req.Timeout != DefaultReportTimeout {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestReportService_GenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		report  domain.Report
		wantErr error
		wantMsg string
	}{
		{"not successful", domain.Report{Success: false, Message: "No data"}, domain.ErrServer, "No data"},
		{"not successful bare", domain.Report{}, domain.ErrServer, "report generation failed"},
		{"no content", domain.Report{Success: true, FileName: "a.pdf"}, domain.ErrIncompleteReport, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{}
			api.handle = respondJSON(t, tt.report)
			svc := NewReportService(api, 0, zerolog.Nop())

			_, err := svc.Generate(context.Background(), domain.ReportUsersExcel)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && domain.UserMessage(err) != tt.wantMsg {
				t.Fatalf("message = %q, want %q", domain.UserMessage(err), tt.wantMsg)
			}
		})
	}
}

func TestReportService_GenerateUnknownKind(t *testing.T) {
	api := &stubAPI{}
	svc := NewReportService(api, 0, zerolog.Nop())

	if _, err := svc.Generate(context.Background(), domain.ReportKind("sales-csv")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(api.requests()) != 0 {
		t.Fatal("unknown kind must not reach the server")
	}
}

func TestReportService_Save(t *testing.T) {
	content := []byte("col1,col2\n1,2\n")
	dir := filepath.Join(t.TempDir(), "reports")
	svc := NewReportService(&stubAPI{}, 0, zerolog.Nop())

	saved, err := svc.Save(&domain.Report{
		Success:    true,
		FileName:   "../Usuarios Activos 2024.XLSX",
		Base64Data: base64.StdEncoding.EncodeToString(content),
		MimeType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.FileName != "usuarios-activos-2024.xlsx" {
		t.Fatalf("file name = %q", saved.FileName)
	}
	if filepath.Dir(saved.Path) != dir {
		t.Fatalf("report escaped target dir: %s", saved.Path)
	}
	got, err := os.ReadFile(saved.Path)
	if err != nil || string(got) != string(content) {
		t.Fatalf("saved content = %q, %v", got, err)
	}
	if saved.Size != int64(len(content)) {
		t.Fatalf("size = %d", saved.Size)
	}
}

func TestReportService_SaveRejectsBadContent(t *testing.T) {
	svc := NewReportService(&stubAPI{}, 0, zerolog.Nop())
	dir := t.TempDir()

	for _, r := range []*domain.Report{nil, {FileName: "a.pdf"}, {FileName: "a.pdf", Base64Data: "!!not base64!!"}} {
		if _, err := svc.Save(r, dir); !errors.Is(err, domain.ErrIncompleteReport) {
			t.Errorf("Save(%+v): expected ErrIncompleteReport, got %v", r, err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}
