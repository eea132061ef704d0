// Package seeders loads a YAML fixture through the services, so every seeded
// record passes the same validation as an API call.
package seeders

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	"equipment-access/internal/routes"
)

//go:embed fixtures/example.yaml
var Example []byte

type Fixture struct {
	Persons        []PersonRow    `yaml:"persons"`
	Providers      []ProviderRow  `yaml:"providers"`
	Equipment      []EquipmentRow `yaml:"equipment"`
	InitialEntries []EntryRow     `yaml:"initial_entries"`
}

type PersonRow struct {
	FullName string `yaml:"full_name"`
	Document string `yaml:"document"`
	Role     string `yaml:"role"`
}

type ProviderRow struct {
	Name         string `yaml:"name"`
	TaxID        string `yaml:"tax_id"`
	ContactEmail string `yaml:"contact_email"`
	Address      string `yaml:"address"`
}

// EquipmentRow names its provider by tax id.
type EquipmentRow struct {
	Kind            string `yaml:"kind"`
	Serial          string `yaml:"serial"`
	Brand           string `yaml:"brand"`
	Model           string `yaml:"model"`
	Status          string `yaml:"status"`
	Frequency       string `yaml:"maintenance_frequency"`
	Provider        string `yaml:"provider"`
	OS              string `yaml:"os"`
	RAMGB           *int   `yaml:"ram_gb"`
	RiskClass       string `yaml:"risk_class"`
	CalibrationCert string `yaml:"calibration_cert"`
}

// EntryRow is the first ENTRY of a pair, named by person document and equipment serial.
type EntryRow struct {
	Person    string `yaml:"person"`
	Equipment string `yaml:"equipment"`
	Purpose   string `yaml:"purpose"`
}

// Report counts what Apply created; existing records are left alone.
type Report struct {
	Persons   int
	Providers int
	Equipment int
	Entries   int
}

func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

type seeder struct {
	svc    routes.Services
	logger *zap.Logger

	persons    map[string]int64
	providers  map[string]int64
	equipments map[string]int64
}

// Apply seeds the fixture in dependency order. It can run repeatedly: rows
// whose natural key (document, tax id, serial) already exists are skipped,
// and an initial entry is only written for a pair without history.
func Apply(ctx context.Context, f *Fixture, svc routes.Services, logger *zap.Logger) (Report, error) {
	s := &seeder{svc: svc, logger: logger}
	if err := s.index(ctx); err != nil {
		return Report{}, err
	}

	var report Report
	for _, row := range f.Persons {
		if _, ok := s.persons[row.Document]; ok {
			continue
		}
		person, err := svc.Persons.CreatePerson(ctx, dto.CreatePersonDTO{FullName: row.FullName, Document: row.Document, Role: row.Role})
		if err != nil {
			return report, fmt.Errorf("person %s: %w", row.Document, err)
		}
		s.persons[row.Document] = person.ID
		report.Persons++
	}

	for _, row := range f.Providers {
		if _, ok := s.providers[row.TaxID]; ok {
			continue
		}
		provider, err := svc.Providers.CreateProvider(ctx, dto.CreateProviderDTO{
			Name:         row.Name,
			TaxID:        row.TaxID,
			ContactEmail: row.ContactEmail,
			Address:      row.Address,
		})
		if err != nil {
			return report, fmt.Errorf("provider %s: %w", row.TaxID, err)
		}
		s.providers[row.TaxID] = provider.ID
		report.Providers++
	}

	for _, row := range f.Equipment {
		if _, ok := s.equipments[row.Serial]; ok {
			continue
		}
		providerID, ok := s.providers[row.Provider]
		if !ok {
			return report, fmt.Errorf("equipment %s: unknown provider %q", row.Serial, row.Provider)
		}
		equipment, err := svc.Equipment.CreateEquipment(ctx, dto.CreateEquipmentDTO{
			Kind:            row.Kind,
			Serial:          row.Serial,
			Brand:           row.Brand,
			Model:           row.Model,
			Status:          row.Status,
			Frequency:       row.Frequency,
			ProviderID:      providerID,
			OS:              row.OS,
			RAMGB:           row.RAMGB,
			RiskClass:       row.RiskClass,
			CalibrationCert: row.CalibrationCert,
		})
		if err != nil {
			return report, fmt.Errorf("equipment %s: %w", row.Serial, err)
		}
		s.equipments[row.Serial] = equipment.ID
		report.Equipment++
	}

	for _, row := range f.InitialEntries {
		created, err := s.entry(ctx, row)
		if err != nil {
			return report, fmt.Errorf("initial entry %s/%s: %w", row.Person, row.Equipment, err)
		}
		if created {
			report.Entries++
		}
	}

	logger.Info("fixture applied",
		zap.Int("persons", report.Persons),
		zap.Int("providers", report.Providers),
		zap.Int("equipment", report.Equipment),
		zap.Int("initial_entries", report.Entries))
	return report, nil
}

func (s *seeder) entry(ctx context.Context, row EntryRow) (bool, error) {
	personID, ok := s.persons[row.Person]
	if !ok {
		return false, fmt.Errorf("unknown person %q", row.Person)
	}
	equipmentID, ok := s.equipments[row.Equipment]
	if !ok {
		return false, fmt.Errorf("unknown equipment %q", row.Equipment)
	}

	history, err := s.svc.AccessRequests.History(ctx, personID, equipmentID)
	if err != nil {
		return false, err
	}
	if len(history) > 0 {
		s.logger.Debug("pair already has history", zap.Int64("person_id", personID), zap.Int64("equipment_id", equipmentID))
		return false, nil
	}

	_, err = s.svc.AccessRequests.CreateEntryRequest(ctx, dto.CreateAccessRequestDTO{
		PersonID:    personID,
		EquipmentID: equipmentID,
		Purpose:     row.Purpose,
		Type:        string(entities.RequestEntry),
	})
	return err == nil, err
}

func (s *seeder) index(ctx context.Context) error {
	persons, err := s.svc.Persons.ListPersons(ctx)
	if err != nil {
		return err
	}
	providers, err := s.svc.Providers.ListProviders(ctx)
	if err != nil {
		return err
	}
	equipments, err := s.svc.Equipment.ListEquipments(ctx)
	if err != nil {
		return err
	}

	s.persons = make(map[string]int64, len(persons))
	for _, p := range persons {
		s.persons[p.Document] = p.ID
	}
	s.providers = make(map[string]int64, len(providers))
	for _, p := range providers {
		s.providers[p.TaxID] = p.ID
	}
	s.equipments = make(map[string]int64, len(equipments))
	for _, e := range equipments {
		s.equipments[e.Serial] = e.ID
	}
	return nil
}
