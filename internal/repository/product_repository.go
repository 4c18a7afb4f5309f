package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/Znarfieeee/Numsthrift/internal/model"
)

// ProductRepo provides CRUD and browse queries for listings. The
// additional_images column stores the gallery as a JSON array of URLs so a
// listing stays a single row.
type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// DB exposes the underlying handle for starting transactions that span
// products, orders and cart rows.
func (r *ProductRepo) DB() *sql.DB { return r.db }

// BrowseItem is a catalog row: the product plus its seller's display name
// and category name, matching what the storefront renders.
type BrowseItem struct {
	model.Product
	SellerName   string  `json:"seller_name"`
	CategoryName *string `json:"category_name,omitempty"`
}

// BrowseFilter narrows the public catalog query. Zero values mean "no
// constraint". Price bounds are in cents; MaxPriceCents < 0 means unbounded.
type BrowseFilter struct {
	CategoryID    uint64
	MinPriceCents int64
	MaxPriceCents int64
	Search        string
}

const productColumns = `p.id, p.seller_id, p.title, p.description, p.price_cents, p.quantity,
       p.category_id, p.condition, p.brand, p.size, p.image_url, p.thumb_url,
       p.additional_images, p.status, p.created_at, p.updated_at`

func scanProduct(scan func(dest ...interface{}) error) (model.Product, error) {
	var (
		p          model.Product
		categoryID sql.NullInt64
		condition  string
		brand      sql.NullString
		size       sql.NullString
		imageURL   sql.NullString
		thumbURL   sql.NullString
		galleryRaw sql.NullString
		status     string
	)
	err := scan(&p.ID, &p.SellerID, &p.Title, &p.Description, &p.PriceCents, &p.Quantity,
		&categoryID, &condition, &brand, &size, &imageURL, &thumbURL,
		&galleryRaw, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, err
	}
	if categoryID.Valid {
		cid := uint64(categoryID.Int64)
		p.CategoryID = &cid
	}
	p.Condition = model.Condition(condition)
	if brand.Valid {
		b := brand.String
		p.Brand = &b
	}
	if size.Valid {
		s := size.String
		p.Size = &s
	}
	if imageURL.Valid {
		u := imageURL.String
		p.ImageURL = &u
	}
	if thumbURL.Valid {
		u := thumbURL.String
		p.ThumbURL = &u
	}
	p.AdditionalImages = []string{}
	if galleryRaw.Valid && galleryRaw.String != "" {
		// a malformed gallery is treated as empty rather than failing the row
		_ = json.Unmarshal([]byte(galleryRaw.String), &p.AdditionalImages)
	}
	p.Status = model.ProductStatus(status)
	return p, nil
}

// Create inserts a listing and re-selects it so timestamps and defaults are
// populated on the returned value.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	gallery, err := json.Marshal(p.AdditionalImages)
	if err != nil {
		return err
	}
	var categoryID interface{}
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products
         (seller_id, title, description, price_cents, quantity, category_id,
          `+"`condition`"+`, brand, size, image_url, thumb_url, additional_images, status)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.SellerID, p.Title, p.Description, p.PriceCents, p.Quantity, categoryID,
		string(p.Condition), p.Brand, p.Size, p.ImageURL, p.ThumbURL, string(gallery), string(p.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// GetByID fetches a listing by id.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p WHERE p.id=? LIMIT 1", id)
	return scanProduct(row.Scan)
}

// GetDetail fetches a listing joined with seller and category names.
func (r *ProductRepo) GetDetail(ctx context.Context, id uint64) (BrowseItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+`, u.full_name, c.name
         FROM products p
         JOIN users u ON u.id = p.seller_id
         LEFT JOIN categories c ON c.id = p.category_id
         WHERE p.id=? LIMIT 1`, id)
	var item BrowseItem
	var catName sql.NullString
	p, err := scanProduct(func(dest ...interface{}) error {
		dest = append(dest, &item.SellerName, &catName)
		return row.Scan(dest...)
	})
	if err != nil {
		return BrowseItem{}, err
	}
	item.Product = p
	if catName.Valid {
		n := catName.String
		item.CategoryName = &n
	}
	return item, nil
}

// Browse returns available listings matching the filter, newest first.
func (r *ProductRepo) Browse(ctx context.Context, f BrowseFilter) ([]BrowseItem, error) {
	q := `SELECT ` + productColumns + `, u.full_name, c.name
          FROM products p
          JOIN users u ON u.id = p.seller_id
          LEFT JOIN categories c ON c.id = p.category_id
          WHERE p.status = ?`
	args := []interface{}{string(model.ProductAvailable)}
	if f.CategoryID != 0 {
		q += " AND p.category_id = ?"
		args = append(args, f.CategoryID)
	}
	if f.MinPriceCents > 0 {
		q += " AND p.price_cents >= ?"
		args = append(args, f.MinPriceCents)
	}
	if f.MaxPriceCents > 0 {
		q += " AND p.price_cents <= ?"
		args = append(args, f.MaxPriceCents)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q += " AND (p.title LIKE ? OR p.description LIKE ?)"
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]BrowseItem, 0)
	for rows.Next() {
		var item BrowseItem
		var catName sql.NullString
		p, err := scanProduct(func(dest ...interface{}) error {
			dest = append(dest, &item.SellerName, &catName)
			return rows.Scan(dest...)
		})
		if err != nil {
			return nil, err
		}
		item.Product = p
		if catName.Valid {
			n := catName.String
			item.CategoryName = &n
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListBySeller returns every listing owned by the seller, newest first,
// regardless of status.
func (r *ProductRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products p WHERE p.seller_id=? ORDER BY p.created_at DESC",
		sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update replaces the mutable listing fields of a product owned by sellerID.
// ErrForbidden is returned when the row belongs to someone else.
func (r *ProductRepo) Update(ctx context.Context, sellerID uint64, p *model.Product) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT seller_id FROM products WHERE id=? LIMIT 1", p.ID).Scan(&ownerID)
	if err != nil {
		return err
	}
	if ownerID != sellerID {
		return ErrForbidden
	}
	gallery, err := json.Marshal(p.AdditionalImages)
	if err != nil {
		return err
	}
	var categoryID interface{}
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE products SET title=?, description=?, price_cents=?, quantity=?,
         category_id=?, `+"`condition`"+`=?, brand=?, size=?, image_url=?, thumb_url=?,
         additional_images=?, status=?, updated_at=NOW() WHERE id=?`,
		p.Title, p.Description, p.PriceCents, p.Quantity, categoryID,
		string(p.Condition), p.Brand, p.Size, p.ImageURL, p.ThumbURL,
		string(gallery), string(p.Status), p.ID)
	if err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = updated
	return nil
}

// Delete removes a listing. Sellers may delete only their own rows; admins
// pass admin=true to bypass the ownership check.
func (r *ProductRepo) Delete(ctx context.Context, id, callerID uint64, admin bool) error {
	if !admin {
		var ownerID uint64
		err := r.db.QueryRowContext(ctx,
			"SELECT seller_id FROM products WHERE id=? LIMIT 1", id).Scan(&ownerID)
		if err != nil {
			return err
		}
		if ownerID != callerID {
			return ErrForbidden
		}
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusTx flips a product's status inside the caller's transaction.
// Checkout uses it to move purchased listings to pending together with the
// order insert.
func (r *ProductRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ProductStatus) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	return err
}

// UpdateStatus flips a product's status outside a transaction. Cancellation
// uses it for the best-effort inventory release.
func (r *ProductRepo) UpdateStatus(ctx context.Context, id uint64, status model.ProductStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	return err
}

// Count returns the total number of listings. Admin dashboard only.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}
