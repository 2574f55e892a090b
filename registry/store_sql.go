package registry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type descriptorRow struct {
	bun.BaseModel `bun:"table:openenum_descriptors"`

	Name    string        `bun:"name,pk"`
	Syntax  string        `bun:"syntax,notnull"`
	Values  []ValueRecord `bun:"enum_values,type:text,notnull"`
	Source  string        `bun:"source"`
	Updated time.Time     `bun:"updated,notnull"`
}

// OpenSQL connects to a database with the bun dialect matching driver:
// sqlite (or sqlite3), postgres or mysql. Queries are printed when debug
// is set or the BUNDEBUG environment variable asks for it.
func OpenSQL(driver, dsn string, debug bool) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch driver {
	case "sqlite", "sqlite3":
		if sqlDB, err = sql.Open(sqliteshim.ShimName, dsn); err == nil {
			db = bun.NewDB(sqlDB, sqlitedialect.New())
		}
	case "postgres", "postgresql":
		if sqlDB, err = sql.Open("postgres", dsn); err == nil {
			db = bun.NewDB(sqlDB, pgdialect.New())
		}
	case "mysql":
		if sqlDB, err = sql.Open("mysql", dsn); err == nil {
			db = bun.NewDB(sqlDB, mysqldialect.New())
		}
	default:
		return nil, errors.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(debug),
		bundebug.WithEnabled(debug),
		bundebug.FromEnv("BUNDEBUG"),
	))
	return db, nil
}

type storeSQLImpl struct {
	db *bun.DB
}

var _ Store = (*storeSQLImpl)(nil)

// NewStoreSQL returns a Store backed by db. The table is created when
// missing.
func NewStoreSQL(ctx context.Context, db *bun.DB) (*storeSQLImpl, error) {
	_, err := db.NewCreateTable().
		Model((*descriptorRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create descriptor table")
	}
	return &storeSQLImpl{db: db}, nil
}

func (s *storeSQLImpl) Put(ctx context.Context, rec Record) error {
	row := &descriptorRow{
		Name:    rec.Name,
		Syntax:  rec.Syntax,
		Values:  rec.Values,
		Source:  rec.Source,
		Updated: rec.Updated,
	}
	fields := []string{"syntax", "enum_values", "source", "updated"}
	q := s.db.NewInsert().Model(row)
	var set []string
	switch {
	case s.db.HasFeature(feature.InsertOnConflict):
		for _, f := range fields {
			set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", bun.Ident(f), bun.Ident(f)))
		}
		q = q.On("CONFLICT (name) DO UPDATE").Set(strings.Join(set, ", "))
	case s.db.HasFeature(feature.InsertOnDuplicateKey):
		for _, f := range fields {
			set = append(set, fmt.Sprintf("%s = VALUES(%s)", bun.Ident(f), bun.Ident(f)))
		}
		q = q.On("DUPLICATE KEY UPDATE " + strings.Join(set, ", "))
	}
	if _, err := q.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to put record %s", rec.Name)
	}
	return nil
}

func (s *storeSQLImpl) List(ctx context.Context) ([]Record, error) {
	var rows []descriptorRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	recs := make([]Record, len(rows))
	for i, row := range rows {
		recs[i] = Record{
			Name:    row.Name,
			Syntax:  row.Syntax,
			Values:  row.Values,
			Source:  row.Source,
			Updated: row.Updated,
		}
	}
	return recs, nil
}
