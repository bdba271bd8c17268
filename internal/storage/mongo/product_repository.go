package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Images      []string           `bson:"images"`
	Sizes       []string           `bson:"sizes"`
	Category    string             `bson:"category"`
	InStock     bool               `bson:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func productToDocument(p domain.Product) productDocument {
	doc := productDocument{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Images:      p.Images,
		Sizes:       p.Sizes,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:   p.UpdatedAt.UTC().Truncate(time.Millisecond),
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if doc.Sizes == nil {
		doc.Sizes = []string{}
	}
	return doc
}

func (d productDocument) toDomain() domain.Product {
	product := domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Images:      d.Images,
		Sizes:       d.Sizes,
		Category:    d.Category,
		InStock:     d.InStock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}
	return product
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository создаёт MongoDB-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{coll: store.db.Collection(productsCollection)}
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, wrapErr("find products", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("decode products", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toDomain())
	}
	return products, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	oid, ok := parseID(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, wrapErr("find product", err)
	}
	return doc.toDomain(), nil
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := productToDocument(product)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Product{}, wrapErr("insert product", err)
	}
	return doc.toDomain(), nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	oid, ok := parseID(product.ID)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := productToDocument(product)
	// createdAt не входит в $set и остаётся исходным.
	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"price":       doc.Price,
		"description": doc.Description,
		"images":      doc.Images,
		"sizes":       doc.Sizes,
		"category":    doc.Category,
		"inStock":     doc.InStock,
		"updatedAt":   doc.UpdatedAt,
	}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return wrapErr("update product", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete product", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
