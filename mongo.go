package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDocumentValidationFailure = 121

// MongoDriver runs the CRUD operations for entity T with identifier K against
// collections of one database. Entities are encoded with their `bson` tags.
type MongoDriver[K comparable, T any] struct {
	client   *mongo.Client
	database string
	opt      *driverOption
}

func NewMongoDriver[K comparable, T any](client *mongo.Client, database string, options ...DriverOption) MongoDriver[K, T] {
	return MongoDriver[K, T]{
		client:   client,
		database: database,
		opt:      newDriverOption(options),
	}
}

func (m MongoDriver[K, T]) Collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

// ByID is the filter matching the document with the given identifier.
func (m MongoDriver[K, T]) ByID(id K) bson.D {
	return bson.D{{Key: MongoIDField, Value: id}}
}

func (m MongoDriver[K, T]) FindAll(ctx context.Context, collection string) ([]T, error) {
	m.logOperation(ctx, "find_all", collection)

	cur, err := m.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, wrapMongoError(err)
	}
	defer cur.Close(ctx)

	results := make([]T, 0)
	for cur.Next(ctx) {
		var entity T
		if err := cur.Decode(&entity); err != nil {
			return nil, wrapUnknown(err, "failed to decode document from %s", collection)
		}
		results = append(results, entity)
	}

	if err := cur.Err(); err != nil {
		return nil, wrapMongoError(err)
	}

	return results, nil
}

// FindOne returns nil, nil when nothing matches filter.
func (m MongoDriver[K, T]) FindOne(ctx context.Context, collection string, filter any) (*T, error) {
	m.logOperation(ctx, "find_one", collection)

	res := m.Collection(collection).FindOne(ctx, filter)
	return decodeSingle[T](res, collection)
}

// InsertOne returns the identifier the backend assigned to the inserted document.
func (m MongoDriver[K, T]) InsertOne(ctx context.Context, collection string, entity *T) (K, error) {
	var id K
	m.logOperation(ctx, "insert_one", collection)

	res, err := m.Collection(collection).InsertOne(ctx, entity)
	if err != nil {
		return id, wrapMongoError(err)
	}

	id, ok := res.InsertedID.(K)
	if !ok {
		return id, newUnknownError("inserted id %v has type %T, want %T", res.InsertedID, res.InsertedID, id)
	}

	return id, nil
}

// UpdateOne sets every field of entity except the identifier on the document
// matching filter and returns the document as stored after the update, or
// nil, nil when nothing matched.
func (m MongoDriver[K, T]) UpdateOne(ctx context.Context, collection string, filter any, entity *T) (*T, error) {
	fields, err := updateFields(entity)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return m.FindOne(ctx, collection, filter)
	}

	m.logOperation(ctx, "update_one", collection)

	update := bson.D{{Key: "$set", Value: fields}}
	opts := mongoOptions.FindOneAndUpdate().SetReturnDocument(mongoOptions.After)
	res := m.Collection(collection).FindOneAndUpdate(ctx, filter, update, opts)

	return decodeSingle[T](res, collection)
}

// DeleteOne removes at most one document matching filter.
func (m MongoDriver[K, T]) DeleteOne(ctx context.Context, collection string, filter any) (int64, error) {
	m.logOperation(ctx, "delete_one", collection)

	res, err := m.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return 0, wrapMongoError(err)
	}

	return res.DeletedCount, nil
}

func (m MongoDriver[K, T]) logOperation(ctx context.Context, op, collection string) {
	m.opt.logger.DebugContext(ctx, "executing operation", "op", op, "database", m.database, "collection", collection)
}

func decodeSingle[T any](res *mongo.SingleResult, collection string) (*T, error) {
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrapMongoError(err)
	}

	var entity T
	if err := res.Decode(&entity); err != nil {
		return nil, wrapUnknown(err, "failed to decode document from %s", collection)
	}

	return &entity, nil
}

// updateFields encodes entity and drops the identifier field, so an update
// never reassigns a document's identity.
func updateFields(entity any) (bson.D, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, wrapUnknown(err, "failed to encode document")
	}

	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, wrapUnknown(err, "failed to encode document")
	}

	return Filter(doc, func(e bson.E) bool {
		return e.Key != MongoIDField
	}), nil
}

func wrapMongoError(err error) error {
	if err == nil {
		return nil
	}

	var re *RepositoryError
	if errors.As(err, &re) {
		return err
	}

	if mongo.IsDuplicateKeyError(err) {
		return newConstraintViolation(mongoErrorMessage(err), err)
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == mongoDocumentValidationFailure {
				return newConstraintViolation(e.Message, err)
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == mongoDocumentValidationFailure {
		return newConstraintViolation(ce.Message, err)
	}

	return newConnectionError(err)
}

func mongoErrorMessage(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		return we.WriteErrors[0].Message
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Message
	}

	return err.Error()
}
