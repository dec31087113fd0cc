package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/infrastructure/metrics"
)

const DefaultReportTimeout = 120 * time.Second

// ReportService requests server-generated reports and writes them to disk.
type ReportService struct {
	api     ports.APIClient
	timeout time.Duration
	logger  zerolog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(api ports.APIClient, timeout time.Duration, logger zerolog.Logger) *ReportService {
	if timeout <= 0 {
		timeout = DefaultReportTimeout
	}
	return &ReportService{api: api, timeout: timeout, logger: logger}
}

// Generate asks the server for a report. A response without success set, or
// without a file name and content, is an error.
func (s *ReportService) Generate(ctx context.Context, kind domain.ReportKind) (*domain.Report, error) {
	path, err := kind.Path()
	if err != nil {
		return nil, err
	}
	resp, err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: path, Timeout: s.timeout})
	if err != nil {
		return nil, err
	}

	var report domain.Report
	if err := resp.Decode(&report); err != nil {
		return nil, err
	}
	if !report.Success {
		msg := strings.TrimSpace(report.Message)
		if msg == "" {
			msg = "report generation failed"
		}
		return nil, &domain.APIError{Status: resp.Status, Message: msg, Kind: domain.ErrServer}
	}
	if report.FileName == "" || report.Base64Data == "" {
		return nil, fmt.Errorf("report %s: %w", kind, domain.ErrIncompleteReport)
	}
	s.logger.Info().Str("kind", string(kind)).Str("file_name", report.FileName).Int64("size", report.Size).Msg("report generated")
	return &report, nil
}

// Save decodes the report content into dir and checks the file landed.
// The server's file name is reduced to a safe slug; the extension is kept.
func (s *ReportService) Save(report *domain.Report, dir string) (*domain.SavedReport, error) {
	if report == nil || report.Base64Data == "" {
		return nil, fmt.Errorf("save report: %w", domain.ErrIncompleteReport)
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(report.Base64Data), ""))
	if err != nil {
		return nil, fmt.Errorf("save report: %w: invalid base64 content", domain.ErrIncompleteReport)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("save report: create dir: %w", err)
	}
	name := reportFileName(report.FileName)
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("save report: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("save report: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("save report: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("save report: file was not saved: %w", err)
	}
	if info.Size() != int64(len(data)) {
		return nil, fmt.Errorf("save report: wrote %d of %d bytes", info.Size(), len(data))
	}

	format := strings.TrimPrefix(filepath.Ext(name), ".")
	metrics.ReportsSavedTotal.WithLabelValues(format).Inc()
	s.logger.Info().Str("path", target).Int64("bytes", info.Size()).Msg("report saved")

	return &domain.SavedReport{Path: target, FileName: name, Size: info.Size(), MimeType: report.MimeType}, nil
}

// reportFileName slugs the base name and keeps a lower-cased extension.
func reportFileName(serverName string) string {
	base := filepath.Base(strings.ReplaceAll(serverName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "report"
	}
	return stem + ext
}

func (s *ReportService) Available(ctx context.Context) ([]domain.ReportInfo, error) {
	var out []domain.ReportInfo
	if err := getJSON(ctx, s.api, "/reports/available", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
