package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
)

const accessReportSheet = "Access log"

var accessReportHeaders = []interface{}{
	"ID", "Requested at", "Type", "Person ID", "Person", "Document",
	"Equipment ID", "Serial", "Kind", "Purpose",
}

type AccessReportServiceInterface interface {
	Export(ctx context.Context, w io.Writer) (int, error)
}

// AccessReportService writes the access log as an xlsx workbook.
type AccessReportService struct {
	accessRequestRepository repositories.AccessRequestRepositoryInterface
	personRepository        repositories.PersonRepositoryInterface
	equipmentRepository     repositories.EquipmentRepositoryInterface
	logger                  *zap.Logger
}

func NewAccessReportService(
	accessRequestRepository repositories.AccessRequestRepositoryInterface,
	personRepository repositories.PersonRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) *AccessReportService {
	return &AccessReportService{
		accessRequestRepository: accessRequestRepository,
		personRepository:        personRepository,
		equipmentRepository:     equipmentRepository,
		logger:                  logger,
	}
}

// Export writes every access request, oldest first, and returns how many rows were written.
func (s *AccessReportService) Export(ctx context.Context, w io.Writer) (int, error) {
	requests, err := s.accessRequestRepository.FindAllOrdered(ctx)
	if err != nil {
		return 0, err
	}

	persons := map[int64]entities.Person{}
	equipments := map[int64]entities.Equipment{}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", accessReportSheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(accessReportSheet, "A1", &accessReportHeaders); err != nil {
		return 0, err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(accessReportSheet, "A1", "J1", style)

	for i, request := range requests {
		person, err := lookup(ctx, persons, request.PersonID, s.personRepository.FindByID)
		if err != nil {
			return 0, err
		}
		equipment, err := lookup(ctx, equipments, request.EquipmentID, s.equipmentRepository.FindByID)
		if err != nil {
			return 0, err
		}

		row := []interface{}{
			request.ID, request.RequestedAt.UTC().Format(time.RFC3339Nano), string(request.Type),
			request.PersonID, person.FullName, person.Document,
			request.EquipmentID, equipment.Serial, string(equipment.Kind), request.Purpose,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(accessReportSheet, cell, &row); err != nil {
			return 0, err
		}
	}
	_ = f.SetColWidth(accessReportSheet, "B", "B", 32)
	_ = f.SetColWidth(accessReportSheet, "E", "E", 30)
	_ = f.SetColWidth(accessReportSheet, "J", "J", 50)

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("access log exported", zap.Int("rows", len(requests)))
	return len(requests), nil
}

// lookup memoizes finds; a missing record exports as blank columns.
func lookup[T any](ctx context.Context, seen map[int64]T, id int64, find func(context.Context, int64) (T, error)) (T, error) {
	if v, ok := seen[id]; ok {
		return v, nil
	}
	v, err := find(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return v, err
	}
	seen[id] = v
	return v, nil
}
