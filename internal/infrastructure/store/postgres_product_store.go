package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/example/webstore/internal/model"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var productColumns = []string{
	"id", "name", "description", "price", "discount_percent", "quantity",
	"image_url", "category_id", "brand_id", "gender_id",
}

// productDest holds scan targets for the nullable product columns.
type productDest struct {
	description sql.NullString
	imageURL    sql.NullString
}

func (d *productDest) targets(p *model.Product) []any {
	return []any{
		&p.ID, &p.Name, &d.description, &p.Price, &p.DiscountPercent, &p.Quantity,
		&d.imageURL, &p.CategoryID, &p.BrandID, &p.GenderID,
	}
}

func (d *productDest) apply(p *model.Product) {
	p.Description = nullableString(d.description)
	p.ImageURL = nullableString(d.imageURL)
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// PostgresProductStore implements ProductStore.
type PostgresProductStore struct {
	*Postgres
}

func NewPostgresProductStore(pg *Postgres) *PostgresProductStore {
	return &PostgresProductStore{Postgres: pg}
}

func (s *PostgresProductStore) selectDetailed() sq.SelectBuilder {
	cols := append(prefixed("p.", productColumns), "c.name", "b.name", "g.name")
	return s.sb.Select(cols...).
		From("products p").
		Join("categories c ON c.id = p.category_id").
		Join("brands b ON b.id = p.brand_id").
		Join("genders g ON g.id = p.gender_id").
		OrderBy("p.id")
}

func (s *PostgresProductStore) List(ctx context.Context) ([]model.Product, error) {
	return s.listDetailed(ctx, s.selectDetailed())
}

func (s *PostgresProductStore) Get(ctx context.Context, id int) (*model.Product, error) {
	products, err := s.listDetailed(ctx, s.selectDetailed().Where(sq.Eq{"p.id": id}))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// LockForUpdate locks the given product rows in ascending id order until the
// surrounding transaction ends. Ids without a row are ignored.
func (s *PostgresProductStore) LockForUpdate(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.query(ctx, s.lockQuery(ids))
	if err != nil {
		return fmt.Errorf("lock products: %w", mapPQError(err))
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock products: %w", mapPQError(err))
	}
	return nil
}

func (s *PostgresProductStore) lockQuery(ids []int) sq.SelectBuilder {
	return s.sb.
		Select("id").
		From("products").
		Where("id = ANY(?)", pq.Array(ids)).
		OrderBy("id").
		Suffix("FOR UPDATE")
}

func (s *PostgresProductStore) Search(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	b := s.selectDetailed()
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"p.category_id": *f.CategoryID})
	}
	if f.GenderID != nil {
		b = b.Where(sq.Eq{"p.gender_id": *f.GenderID})
	}
	if f.BrandID != nil {
		b = b.Where(sq.Eq{"p.brand_id": *f.BrandID})
	}
	if f.SizeID != nil {
		b = b.Where("EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = p.id AND ps.size_id = ?)", *f.SizeID)
	}
	if f.ColorID != nil {
		b = b.Where("EXISTS (SELECT 1 FROM product_colors pc WHERE pc.product_id = p.id AND pc.color_id = ?)", *f.ColorID)
	}
	if f.PriceMin != nil {
		b = b.Where(sq.GtOrEq{"p.price": *f.PriceMin})
	}
	if f.PriceMax != nil {
		b = b.Where(sq.LtOrEq{"p.price": *f.PriceMax})
	}
	if f.InStock != nil && *f.InStock {
		b = b.Where(sq.Gt{"p.quantity": 0})
	}
	return s.listDetailed(ctx, b)
}

func (s *PostgresProductStore) listDetailed(ctx context.Context, b sq.SelectBuilder) ([]model.Product, error) {
	rows, err := s.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			p                    model.Product
			d                    productDest
			category, brand, gen model.Lookup
		)
		dest := append(d.targets(&p), &category.Name, &brand.Name, &gen.Name)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		d.apply(&p)
		category.ID, brand.ID, gen.ID = p.CategoryID, p.BrandID, p.GenderID
		p.Category, p.Brand, p.Gender = &category, &brand, &gen
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	sizes, err := s.loadLinked(ctx, "product_sizes", "size_id", "sizes", ids)
	if err != nil {
		return nil, err
	}
	colors, err := s.loadLinked(ctx, "product_colors", "color_id", "colors", ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		p.Sizes, p.Colors = sizes[p.ID], colors[p.ID]
		for _, l := range p.Sizes {
			p.SizeIDs = append(p.SizeIDs, l.ID)
		}
		for _, l := range p.Colors {
			p.ColorIDs = append(p.ColorIDs, l.ID)
		}
	}
	return products, nil
}

// loadLinked reads a many-to-many lookup link table for the given products.
func (s *PostgresProductStore) loadLinked(ctx context.Context, link, fk, table string, productIDs []int) (map[int][]model.Lookup, error) {
	rows, err := s.query(ctx, s.sb.
		Select("l.product_id", "t.id", "t.name").
		From(link+" l").
		Join(fmt.Sprintf("%s t ON t.id = l.%s", table, fk)).
		Where("l.product_id = ANY(?)", pq.Array(productIDs)).
		OrderBy("l.product_id", "t.id"))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[int][]model.Lookup)
	for rows.Next() {
		var productID int
		var l model.Lookup
		if err := rows.Scan(&productID, &l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[productID] = append(out[productID], l)
	}
	return out, rows.Err()
}

func (s *PostgresProductStore) Create(ctx context.Context, p *model.Product) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		row, err := s.queryRow(ctx, s.sb.
			Insert("products").
			Columns(productColumns[1:]...).
			Values(p.Name, p.Description, p.Price, p.DiscountPercent, p.Quantity,
				p.ImageURL, p.CategoryID, p.BrandID, p.GenderID).
			Suffix("RETURNING id"))
		if err != nil {
			return err
		}
		if err := row.Scan(&p.ID); err != nil {
			return fmt.Errorf("insert product: %w", mapPQError(err))
		}
		return s.replaceLinks(ctx, p)
	})
}

func (s *PostgresProductStore) Update(ctx context.Context, p *model.Product) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		err := s.execOne(ctx, s.sb.
			Update("products").
			SetMap(map[string]any{
				"name":             p.Name,
				"description":      p.Description,
				"price":            p.Price,
				"discount_percent": p.DiscountPercent,
				"quantity":         p.Quantity,
				"image_url":        p.ImageURL,
				"category_id":      p.CategoryID,
				"brand_id":         p.BrandID,
				"gender_id":        p.GenderID,
			}).
			Where(sq.Eq{"id": p.ID}))
		if err != nil {
			return err
		}
		return s.replaceLinks(ctx, p)
	})
}

func (s *PostgresProductStore) replaceLinks(ctx context.Context, p *model.Product) error {
	links := []struct {
		table, fk string
		ids       []int
	}{
		{"product_sizes", "size_id", p.SizeIDs},
		{"product_colors", "color_id", p.ColorIDs},
	}
	for _, l := range links {
		if _, err := s.exec(ctx, s.sb.Delete(l.table).Where(sq.Eq{"product_id": p.ID})); err != nil {
			return fmt.Errorf("clear %s: %w", l.table, err)
		}
		if len(l.ids) == 0 {
			continue
		}
		ins := s.sb.Insert(l.table).Columns("product_id", l.fk)
		for _, id := range l.ids {
			ins = ins.Values(p.ID, id)
		}
		if _, err := s.exec(ctx, ins.Suffix("ON CONFLICT DO NOTHING")); err != nil {
			return fmt.Errorf("insert %s: %w", l.table, err)
		}
	}
	return nil
}

func (s *PostgresProductStore) SetDiscount(ctx context.Context, id int, percent decimal.Decimal) error {
	return s.execOne(ctx, s.sb.
		Update("products").
		Set("discount_percent", percent).
		Where(sq.Eq{"id": id}))
}

func (s *PostgresProductStore) Delete(ctx context.Context, id int) error {
	return s.execOne(ctx, s.sb.Delete("products").Where(sq.Eq{"id": id}))
}
