package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	productColumns = `id, name, price, description, images, sizes, category, in_stock, created_at, updated_at`
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product       domain.Product
		images, sizes []byte
	)
	if err := row.Scan(
		&product.ID, &product.Name, &product.Price, &product.Description,
		&images, &sizes, &product.Category, &product.InStock,
		&product.CreatedAt, &product.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return domain.Product{}, fmt.Errorf("decode product images: %w", err)
	}
	if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
		return domain.Product{}, fmt.Errorf("decode product sizes: %w", err)
	}
	return product, nil
}

// encodeList сериализует срез в JSONB; nil сохраняется как пустой массив.
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// storedTime приводит время к точности timestamptz, чтобы Create возвращал то же, что потом прочитает Get.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product row", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate product rows", err)
	}

	return products, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	product, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, wrapErr("select product", err)
	}
	return product, nil
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	images, err := encodeList(product.Images)
	if err != nil {
		return domain.Product{}, fmt.Errorf("encode product images: %w", err)
	}
	sizes, err := encodeList(product.Sizes)
	if err != nil {
		return domain.Product{}, fmt.Errorf("encode product sizes: %w", err)
	}

	product.ID = uuid.NewString()
	product.CreatedAt = storedTime(product.CreatedAt)
	product.UpdatedAt = storedTime(product.UpdatedAt)
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9, $10)
	`,
		product.ID, product.Name, product.Price, product.Description,
		images, sizes, product.Category, product.InStock,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("product id %s already exists: %w", product.ID, err)
		}
		return domain.Product{}, wrapErr("insert product", err)
	}

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	images, err := encodeList(product.Images)
	if err != nil {
		return fmt.Errorf("encode product images: %w", err)
	}
	sizes, err := encodeList(product.Sizes)
	if err != nil {
		return fmt.Errorf("encode product sizes: %w", err)
	}

	// created_at намеренно не входит в SET.
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    price = $2,
		    description = $3,
		    images = $4::jsonb,
		    sizes = $5::jsonb,
		    category = $6,
		    in_stock = $7,
		    updated_at = $8
		WHERE id = $9
	`,
		product.Name, product.Price, product.Description,
		images, sizes, product.Category, product.InStock,
		storedTime(product.UpdatedAt), product.ID,
	)
	if err != nil {
		return wrapErr("update product", err)
	}
	return expectAffected(res, domain.ErrProductNotFound)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	return expectAffected(res, domain.ErrProductNotFound)
}

// expectAffected возвращает notFound, если запрос не затронул ни одной строки.
func expectAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
