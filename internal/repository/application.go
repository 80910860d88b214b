// application.go — репозиторий заявок (коллекция applications).
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
)

// ApplicationRepository — хранение заявок.
type ApplicationRepository interface {
	// Insert сохраняет новую заявку, проставляя createdAt/updatedAt.
	// Возвращает идентификатор документа.
	Insert(ctx context.Context, app *model.Application) (string, error)
	// GetByID возвращает заявку по идентификатору.
	GetByID(ctx context.Context, id string) (*model.Application, error)
}

// applicationRepository — реализация поверх коллекции MongoDB.
type applicationRepository struct {
	col *mongo.Collection
}

// NewApplicationRepository создаёт репозиторий заявок.
func NewApplicationRepository(db *mongo.Database) ApplicationRepository {
	return &applicationRepository{
		col: db.Collection(CollectionApplications),
	}
}

// Insert сохраняет заявку. Временные метки назначаются здесь —
// в момент персистенции, а не при сборке записи.
func (r *applicationRepository) Insert(ctx context.Context, app *model.Application) (string, error) {
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, app)
	if err != nil {
		return "", fmt.Errorf("ошибка сохранения заявки: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("неожиданный тип идентификатора: %T", res.InsertedID)
	}
	app.ID = oid

	return oid.Hex(), nil
}

// GetByID возвращает заявку по hex-идентификатору.
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("некорректный идентификатор %q: %w", id, err)
	}

	var app model.Application
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения заявки %s: %w", id, err)
	}

	return &app, nil
}
