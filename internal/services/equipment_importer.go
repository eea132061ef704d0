package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-access/internal/dto"
	apperrors "equipment-access/pkg/errors"
)

// importColumns are the header names the importer understands, matched case-insensitively.
var importColumns = []string{
	"kind", "serial", "brand", "model", "status", "maintenance_frequency", "provider_id",
	"image_url", "os", "ram_gb", "risk_class", "calibration_cert",
}

type EquipmentImportServiceInterface interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error)
}

// EquipmentImportService provisions equipment from a spreadsheet, row by row.
type EquipmentImportService struct {
	equipmentService EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentImportService(equipmentService EquipmentServiceInterface, logger *zap.Logger) *EquipmentImportService {
	return &EquipmentImportService{equipmentService: equipmentService, logger: logger}
}

// Import scans every sheet for the first row holding the kind and serial
// headers and creates one equipment per following non-empty row. Failing rows
// are reported and do not stop the import.
func (s *EquipmentImportService) Import(ctx context.Context, r io.Reader) (*dto.ImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, header, headerRow, err := locateHeader(f)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResultDTO{Failed: []dto.ImportRowError{}}
	for i := headerRow + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		line := i + 1

		d, err := rowToEquipment(row, header)
		if err == nil {
			_, err = s.equipmentService.CreateEquipment(ctx, d)
		}
		if err != nil {
			s.logger.Warn("equipment row rejected", zap.Int("row", line), zap.Error(err))
			result.Failed = append(result.Failed, dto.ImportRowError{Row: line, Error: err.Error()})
			continue
		}
		result.Created++
	}

	s.logger.Info("equipment import finished",
		zap.Int("created", result.Created), zap.Int("failed", len(result.Failed)))
	return result, nil
}

func locateHeader(f *excelize.File) ([][]string, map[string]int, int, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for rIdx, row := range rows {
			header := map[string]int{}
			for cIdx, cell := range row {
				name := strings.ToLower(strings.TrimSpace(cell))
				for _, known := range importColumns {
					if name == known {
						header[known] = cIdx
					}
				}
			}
			_, hasKind := header["kind"]
			_, hasSerial := header["serial"]
			if hasKind && hasSerial {
				return rows, header, rIdx, nil
			}
		}
	}
	return nil, nil, 0, apperrors.NewValidationError("", "no header row with kind and serial columns found")
}

func rowToEquipment(row []string, header map[string]int) (dto.CreateEquipmentDTO, error) {
	cell := func(column string) string {
		idx, ok := header[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	d := dto.CreateEquipmentDTO{
		Kind:            cell("kind"),
		Serial:          cell("serial"),
		Brand:           cell("brand"),
		Model:           cell("model"),
		Status:          cell("status"),
		Frequency:       cell("maintenance_frequency"),
		OS:              cell("os"),
		RiskClass:       cell("risk_class"),
		CalibrationCert: cell("calibration_cert"),
	}
	if url := cell("image_url"); url != "" {
		d.ImageURL = null.StringFrom(url)
	}
	if raw := cell("provider_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return d, apperrors.NewValidationError("provider_id", "must be an integer, got %q", raw)
		}
		d.ProviderID = id
	}
	if raw := cell("ram_gb"); raw != "" {
		ram, err := strconv.Atoi(raw)
		if err != nil {
			return d, apperrors.NewValidationError("ram_gb", "must be an integer, got %q", raw)
		}
		d.RAMGB = &ram
	}
	return d, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
