// Package sqlsource loads the route checker datasets from SQL tables, for deployments where
// the batch pipeline writes its results into a database instead of CSV files.
package sqlsource

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cast"

	"github.com/cubny/farewatch"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Tables names the three dataset tables
type Tables struct {
	Overcharges string
	Anomalies   string
	Zones       string
}

// DefaultTables are the table names the batch pipeline writes to
var DefaultTables = Tables{
	Overcharges: "overcharging_cases",
	Anomalies:   "route_anomalies",
	Zones:       "taxi_zone_lookup",
}

// Open connects to the database, the driver must be registered by the caller
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", farewatch.ErrConfiguration, driver, err)
	}
	return db, nil
}

// LoadDatasets reads the three dataset tables
func LoadDatasets(ctx context.Context, db *sqlx.DB, tables Tables) (farewatch.Datasets, error) {
	var ds farewatch.Datasets
	var err error
	if ds.Overcharges, err = LoadTable(ctx, db, tables.Overcharges); err != nil {
		return farewatch.Datasets{}, err
	}
	if ds.Anomalies, err = LoadTable(ctx, db, tables.Anomalies); err != nil {
		return farewatch.Datasets{}, err
	}
	if ds.Zones, err = LoadTable(ctx, db, tables.Zones); err != nil {
		return farewatch.Datasets{}, err
	}
	return ds, nil
}

// LoadTable reads a whole table, every value is converted to its string form and NULL to ""
func LoadTable(ctx context.Context, db *sqlx.DB, table string) (farewatch.Table, error) {
	if !identifier.MatchString(table) {
		return farewatch.Table{}, fmt.Errorf("%w: invalid table name %q", farewatch.ErrConfiguration, table)
	}

	rows, err := db.QueryxContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return farewatch.Table{}, fmt.Errorf("%w: query %s: %w", farewatch.ErrConfiguration, table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return farewatch.Table{}, fmt.Errorf("%w: columns of %s: %w", farewatch.ErrConfiguration, table, err)
	}

	t := farewatch.Table{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return farewatch.Table{}, fmt.Errorf("%w: scan %s: %w", farewatch.ErrConfiguration, table, err)
		}

		line := make(farewatch.Line, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				return farewatch.Table{}, fmt.Errorf("%w: %s.%s: %w", farewatch.ErrConfiguration, table, columns[i], err)
			}
			line[i] = s
		}
		t.Rows = append(t.Rows, line)
	}
	if err := rows.Err(); err != nil {
		return farewatch.Table{}, fmt.Errorf("%w: read %s: %w", farewatch.ErrConfiguration, table, err)
	}

	return t, nil
}
