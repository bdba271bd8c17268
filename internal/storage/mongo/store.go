package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// DefaultDatabase используется, если имя базы не задано в конфигурации.
	DefaultDatabase = "val10"

	productsCollection = "products"
	ordersCollection   = "orders"

	defaultConnTimeout            = 5 * time.Second
	defaultServerSelectionTimeout = 3 * time.Second
	opTimeout                     = 5 * time.Second
)

var errStoreNotInitialized = errors.New("mongo store is not initialized")

// Store держит клиента MongoDB и выбранную базу.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open подключается к MongoDB и проверяет доступность primary.
// Недоступность кластера возвращается как domain.ErrStoreUnavailable.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(defaultConnTimeout).
		SetServerSelectionTimeout(defaultServerSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, wrapErr("connect mongo", err)
	}

	store := &Store{client: client, db: client.Database(database)}
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

// Ping проверяет доступность primary.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errStoreNotInitialized
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return wrapErr("ping mongo", err)
	}
	return nil
}

// EnsureIndexes создаёт индексы для сортировки по дате создания.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}

	indexCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	for _, name := range []string{productsCollection, ordersCollection} {
		if _, err := s.db.Collection(name).Indexes().CreateOne(indexCtx, model); err != nil {
			return wrapErr("create index on "+name, err)
		}
	}
	return nil
}

// Database возвращает базу, когда нужен низкоуровневый доступ.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Close отключает клиента.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
