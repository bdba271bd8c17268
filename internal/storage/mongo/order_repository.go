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

type orderDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName    string             `bson:"customerName"`
	CustomerPhone   string             `bson:"customerPhone"`
	CustomerAddress string             `bson:"customerAddress"`
	ProductName     string             `bson:"productName"`
	Size            string             `bson:"size"`
	TotalPrice      float64            `bson:"totalPrice"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func orderToDocument(o domain.Order) orderDocument {
	return orderDocument{
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		ProductName:     o.ProductName,
		Size:            o.Size,
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:       o.UpdatedAt.UTC().Truncate(time.Millisecond),
	}
}

func (d orderDocument) toDomain() domain.Order {
	return domain.Order{
		ID:              d.ID.Hex(),
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerAddress: d.CustomerAddress,
		ProductName:     d.ProductName,
		Size:            d.Size,
		TotalPrice:      d.TotalPrice,
		Status:          domain.OrderStatus(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository создаёт MongoDB-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{coll: store.db.Collection(ordersCollection)}
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, wrapErr("find orders", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("decode orders", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.toDomain())
	}
	return orders, nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	oid, ok := parseID(id)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, wrapErr("find order", err)
	}
	return doc.toDomain(), nil
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := orderToDocument(order)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Order{}, wrapErr("insert order", err)
	}
	return doc.toDomain(), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
	oid, ok := parseID(id)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": updatedAt.UTC().Truncate(time.Millisecond)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, wrapErr("update order status", err)
	}
	return doc.toDomain(), nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete order", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
