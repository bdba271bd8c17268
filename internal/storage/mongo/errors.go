package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// wrapErr добавляет контекст операции и помечает сетевые сбои и таймауты как domain.ErrStoreUnavailable.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	var selectionErr topology.ServerSelectionError
	if errors.As(err, &selectionErr) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// parseID разбирает hex-идентификатор. Некорректный id трактуется вызывающим как «не найдено».
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
