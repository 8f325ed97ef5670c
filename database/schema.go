package database

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TableDrift lists the columns of one table that no model field maps to,
// and the model columns the table does not have.
type TableDrift struct {
	Table          string
	Exists         bool
	UnknownColumns []string
	MissingColumns []string
}

func (t TableDrift) Clean() bool {
	return t.Exists && len(t.UnknownColumns) == 0 && len(t.MissingColumns) == 0
}

// ColumnDriftReport compares the live schema against the models. It does not migrate.
func ColumnDriftReport(db *gorm.DB) ([]TableDrift, error) {
	var report []TableDrift
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}

		drift := TableDrift{Table: stmt.Schema.Table}
		if !db.Migrator().HasTable(model) {
			drift.MissingColumns = append(drift.MissingColumns, stmt.Schema.DBNames...)
			report = append(report, drift)
			continue
		}
		drift.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", drift.Table, err)
		}

		modelColumns := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			modelColumns[name] = true
		}
		tableColumns := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			tableColumns[ct.Name()] = true
			if !modelColumns[ct.Name()] {
				drift.UnknownColumns = append(drift.UnknownColumns, ct.Name())
			}
		}
		for _, name := range stmt.Schema.DBNames {
			if !tableColumns[name] {
				drift.MissingColumns = append(drift.MissingColumns, name)
			}
		}
		sort.Strings(drift.UnknownColumns)
		sort.Strings(drift.MissingColumns)
		report = append(report, drift)
	}
	return report, nil
}

// LogColumnDriftReport writes the drift report to the log and returns the
// number of mismatched columns.
func LogColumnDriftReport(db *gorm.DB) (int, error) {
	report, err := ColumnDriftReport(db)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, t := range report {
		switch {
		case !t.Exists:
			log.Warn().Str("table", t.Table).Msg("Table does not exist yet (will be created during migration)")
		case t.Clean():
			log.Info().Str("table", t.Table).Msg("All columns are accounted for in the model")
		default:
			log.Warn().
				Str("table", t.Table).
				Strs("unknownColumns", t.UnknownColumns).
				Strs("missingColumns", t.MissingColumns).
				Msg("Column mismatch")
		}
		total += len(t.UnknownColumns) + len(t.MissingColumns)
	}
	log.Info().Int("mismatchedColumns", total).Msg("Column drift report complete")
	return total, nil
}
