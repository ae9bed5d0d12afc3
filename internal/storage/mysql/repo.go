package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"booking_relay/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// valJSON marshals maps and slices; empty values are stored as NULL.
func valJSON[T any](v map[string]T) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

// Repo stores the catalog in MySQL. It implements domain.CatalogSource.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the catalog table when missing.
func (r *Repo) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply catalog schema")
		}
	}
	return nil
}

func (r *Repo) UpsertItem(ctx context.Context, kind domain.ActionType, position int, it domain.CatalogItem) error {
	if it.ID <= 0 || it.Category == "" {
		return errors.Newf("catalog item needs an id and a category (id=%d)", it.ID)
	}
	args := []any{string(kind), it.Category, it.ID, position}
	for _, m := range []map[string]string{it.Names, it.Descriptions, it.Prices} {
		v, err := valJSON(m)
		if err != nil {
			return errors.Wrapf(err, "encode item %d", it.ID)
		}
		args = append(args, v)
	}
	if args[4] == nil {
		args[4] = "{}"
	}
	features, err := valJSON(it.Features)
	if err != nil {
		return errors.Wrapf(err, "encode item %d features", it.ID)
	}
	badge, err := valJSON(it.Badge)
	if err != nil {
		return errors.Wrapf(err, "encode item %d badge", it.ID)
	}
	warranty, err := valJSON(it.Warranty)
	if err != nil {
		return errors.Wrapf(err, "encode item %d warranty", it.ID)
	}
	args = append(args, features, badge, valStr(it.BadgeColor), warranty, valStr(it.Image), valStr(it.Icon), it.GPSTracking)

	_, err = r.db.ExecContext(ctx, upsertItemSQL, args...)
	return errors.Wrapf(err, "upsert catalog item %s/%d", kind, it.ID)
}

// Count returns the number of stored items of one kind.
func (r *Repo) Count(ctx context.Context, kind domain.ActionType) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countItemsSQL, string(kind)).Scan(&n)
	return n, errors.Wrap(err, "count catalog items")
}

// Load reads the whole catalog. An empty table is reported as domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context) (*domain.Catalog, error) {
	rows, err := r.db.QueryContext(ctx, loadCatalogSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	defer rows.Close()

	c := &domain.Catalog{
		Rentals: map[string][]domain.CatalogItem{},
		Sales:   map[string][]domain.CatalogItem{},
	}
	for rows.Next() {
		var (
			kind                                   string
			it                                     domain.CatalogItem
			names, descs, prices, feats, badge, wr []byte
			badgeColor, image, icon                sql.NullString
		)
		if err := rows.Scan(
			&kind, &it.Category, &it.ID,
			&names, &descs, &prices, &feats, &badge,
			&badgeColor, &wr, &image, &icon, &it.GPSTracking,
		); err != nil {
			return nil, errors.Wrap(err, "scan catalog item")
		}
		for _, f := range []struct {
			raw []byte
			dst any
		}{
			{names, &it.Names}, {descs, &it.Descriptions}, {prices, &it.Prices},
			{feats, &it.Features}, {badge, &it.Badge}, {wr, &it.Warranty},
		} {
			if err := scanJSON(f.raw, f.dst); err != nil {
				return nil, errors.Wrapf(err, "decode catalog item %d", it.ID)
			}
		}
		it.BadgeColor = badgeColor.String
		it.Image = image.String
		it.Icon = icon.String

		switch domain.ActionType(kind) {
		case domain.ActionRent:
			c.Rentals[it.Category] = append(c.Rentals[it.Category], it)
		case domain.ActionBuy:
			c.Sales[it.Category] = append(c.Sales[it.Category], it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate catalog")
	}
	if c.Size() == 0 {
		return nil, errors.Mark(errors.New("catalog table is empty"), domain.ErrNotFound)
	}
	return c, nil
}
