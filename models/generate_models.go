package models

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column drift report

ColumnReport compares every table backing a model against the model's fields and lists
columns present on one side only. Run it with the column-report command:

	site-backend column-report

Example output:

	=== COLUMN REPORT ===
	--- Table: authors ---
	Columns in database but not in model:
	  - legacy_bio
	--- Table: categories ---
	In sync.
	=== SUMMARY ===
	Drifted columns across all tables: 1
*/

// GenerateQueries writes typed query helpers for every model into outPath.
func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	log.Info().Str("outPath", outPath).Msg("generating query helpers")
	g.Execute()
	return nil
}

// ColumnDrift holds the differences found for one table.
type ColumnDrift struct {
	Table     string
	Missing   bool
	DBOnly    []string
	ModelOnly []string
}

// ColumnReport inspects the live schema and writes a human readable drift report to w.
// It returns the total number of drifted columns.
func ColumnReport(db *gorm.DB, w io.Writer) (int, error) {
	drifts, err := DetectColumnDrift(db)
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(w, "=== COLUMN REPORT ===")
	total := 0
	for _, d := range drifts {
		fmt.Fprintf(w, "--- Table: %s ---\n", d.Table)
		if d.Missing {
			fmt.Fprintln(w, "Table does not exist yet (run migrate).")
			continue
		}
		if len(d.DBOnly) == 0 && len(d.ModelOnly) == 0 {
			fmt.Fprintln(w, "In sync.")
			continue
		}
		if len(d.DBOnly) > 0 {
			fmt.Fprintln(w, "Columns in database but not in model:")
			for _, c := range d.DBOnly {
				fmt.Fprintf(w, "  - %s\n", c)
			}
		}
		if len(d.ModelOnly) > 0 {
			fmt.Fprintln(w, "Columns in model but not in database:")
			for _, c := range d.ModelOnly {
				fmt.Fprintf(w, "  - %s\n", c)
			}
		}
		total += len(d.DBOnly) + len(d.ModelOnly)
	}
	fmt.Fprintln(w, "=== SUMMARY ===")
	fmt.Fprintf(w, "Drifted columns across all tables: %d\n", total)
	return total, nil
}

// DetectColumnDrift compares each model with its table.
func DetectColumnDrift(db *gorm.DB) ([]ColumnDrift, error) {
	migrator := db.Migrator()
	var drifts []ColumnDrift
	for _, model := range All() {
		table, modelCols, err := modelColumns(model, db.NamingStrategy)
		if err != nil {
			return nil, err
		}
		if !migrator.HasTable(model) {
			drifts = append(drifts, ColumnDrift{Table: table, Missing: true})
			continue
		}
		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", table, err)
		}
		dbCols := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbCols = append(dbCols, ct.Name())
		}
		drifts = append(drifts, ColumnDrift{
			Table:     table,
			DBOnly:    findColumnMismatches(dbCols, modelCols),
			ModelOnly: findColumnMismatches(modelCols, dbCols),
		})
	}
	return drifts, nil
}

var schemaCache sync.Map

// modelColumns resolves the table name and column names gorm derives for model.
func modelColumns(model any, namer schema.Namer) (string, []string, error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	s, err := schema.Parse(model, &schemaCache, namer)
	if err != nil {
		return "", nil, fmt.Errorf("parsing model %T: %w", model, err)
	}
	cols := append([]string(nil), s.DBNames...)
	sort.Strings(cols)
	return s.Table, cols, nil
}

// findColumnMismatches returns the entries of have that are missing from want.
func findColumnMismatches(have, want []string) []string {
	wanted := make(map[string]bool, len(want))
	for _, c := range want {
		wanted[c] = true
	}

	var mismatches []string
	for _, c := range have {
		if !wanted[c] {
			mismatches = append(mismatches, c)
		}
	}
	return mismatches
}
