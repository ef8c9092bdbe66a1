package database

import (
	"context"
	"fmt"

	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// lineStations is the fixed line-1 provisioning set, in track order.
var lineStations = []struct {
	Code string
	Name string
}{
	{"E01", "Villa El Salvador"},
	{"E02", "Parque Industrial"},
	{"E03", "Pumacahua"},
	{"E04", "Villa Maria"},
	{"E05", "Maria Auxiliadora"},
	{"E06", "San Juan"},
	{"E07", "Atocongo"},
	{"E08", "Jorge Chavez"},
	{"E09", "Ayacucho"},
	{"E10", "Cabitos"},
	{"E11", "Angamos"},
	{"E12", "San Borja Sur"},
	{"E13", "La Cultura"},
	{"E14", "Arriola"},
	{"E15", "Gamarra"},
	{"E16", "Miguel Grau"},
	{"E17", "El Angel"},
	{"E18", "Presbitero Maestro"},
	{"E19", "Caja de Agua"},
	{"E20", "Piramide del Sol"},
	{"E21", "Los Jardines"},
	{"E22", "Los Postes"},
	{"E23", "San Carlos"},
	{"E24", "San Martin"},
	{"E25", "Santa Rosa"},
	{"E26", "Bayovar"},
}

var barTypes = []struct {
	Name    string
	BarType string
}{
	{"Barra Normal", models.BarTypeNormal},
	{"Barra Emergencia", models.BarTypeEmergency},
	{"Barra Continuidad", models.BarTypeContinuity},
}

// CreateSchema creates all tables if they do not exist, in dependency order.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Permission)(nil),
		(*models.Station)(nil),
		(*models.Bar)(nil),
		(*models.Circuit)(nil),
		(*models.SubCircuit)(nil),
		(*models.LoadRequest)(nil),
		(*models.Notification)(nil),
		(*models.Observation)(nil),
		(*models.AuditLog)(nil),
		(*models.Backup)(nil),
	}
	for _, t := range tables {
		if _, err := db.NewCreateTable().Model(t).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", t, err)
		}
	}
	return nil
}

// Seed provisions the initial admin user, the 26 line stations and three bars
// per station. Idempotent: it only inserts into empty tables.
func Seed(ctx context.Context, db *bun.DB) error {
	adminCount, err := db.NewSelect().
		Model((*models.User)(nil)).
		Where("role = ?", models.RoleAdmin).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Username:     "admin",
			PasswordHash: string(hash),
			FullName:     "Administrador del Sistema",
			Role:         models.RoleAdmin,
			Status:       models.UserActive,
			Provider:     "local",
		}
		if _, err := db.NewInsert().Model(admin).Exec(ctx); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	stationCount, err := db.NewSelect().Model((*models.Station)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count stations: %w", err)
	}
	if stationCount > 0 {
		return nil
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, s := range lineStations {
			station := &models.Station{
				Code:                  s.Code,
				Name:                  s.Name,
				OrderIndex:            i + 1,
				TransformerCapacityKW: 500,
				MaxDemandKW:           0,
				AvailablePowerKW:      500,
				Status:                models.StationGreen,
			}
			if _, err := tx.NewInsert().Model(station).Exec(ctx); err != nil {
				return fmt.Errorf("seed station %s: %w", s.Code, err)
			}
			for _, bt := range barTypes {
				bar := &models.Bar{
					StationID:  station.ID,
					Name:       bt.Name,
					BarType:    bt.BarType,
					Status:     models.BarOperative,
					CapacityKW: 200,
					CapacityA:  300,
				}
				if _, err := tx.NewInsert().Model(bar).Exec(ctx); err != nil {
					return fmt.Errorf("seed bar %s/%s: %w", s.Code, bt.BarType, err)
				}
			}
		}
		return nil
	})
}
