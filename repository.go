package store

import (
	"context"
	"fmt"
)

// Repository is the CRUD contract implemented by every generated repository,
// whichever backend it is bound to.
type Repository[K comparable, T any] interface {
	// FindAll returns every stored entity in backend order.
	FindAll(ctx context.Context) ([]T, error)
	// FindOne returns nil, nil when no entity has the given id.
	FindOne(ctx context.Context, id K) (*T, error)
	// InsertOne stores entity and returns the identifier assigned by the backend.
	InsertOne(ctx context.Context, entity *T) (K, error)
	// UpdateOne overwrites the persisted fields of the entity with the given id
	// and returns the stored result, or nil, nil when nothing matched.
	UpdateOne(ctx context.Context, id K, entity *T) (*T, error)
	// DeleteOne returns the number of removed records (0 or 1).
	DeleteOne(ctx context.Context, id K) (int64, error)
}

// Backend selects the driver a generated repository delegates to. It is fixed
// when the repository is generated.
type Backend int

const (
	BackendPostgres Backend = iota + 1
	BackendMongo
)

func (b Backend) String() string {
	switch b {
	case BackendPostgres:
		return "postgres"
	case BackendMongo:
		return "mongo"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// StorageDirective is the directive naming an explicit storage location for
// the backend: "table" for postgres, "collection" for mongo.
func (b Backend) StorageDirective() string {
	if b == BackendMongo {
		return "collection"
	}
	return "table"
}

// DefaultIDColumn is the identifier column or field the backend uses when the
// declaration does not name one.
func (b Backend) DefaultIDColumn() string {
	if b == BackendMongo {
		return MongoIDField
	}
	return DefaultIDColumn
}

// Descriptor is the resolved metadata of one repository declaration.
type Descriptor struct {
	// Repository is the name of the declared repository struct.
	Repository string
	// Entity is the bound entity type as written, e.g. "User" or "model.User".
	Entity string
	// EntityPackage is the qualifier of Entity, empty for local types.
	EntityPackage string
	// ID is the identifier type expression as written.
	ID string
	// StorageName is the table or collection the entity is kept under.
	StorageName string
	// IDColumn is the identifier column (postgres) or field (mongo).
	IDColumn string
	Backend  Backend
}

// EntityName returns the unqualified entity type name.
func (d Descriptor) EntityName() string {
	if d.EntityPackage == "" {
		return d.Entity
	}
	return d.Entity[len(d.EntityPackage)+1:]
}

// Require turns the optional result of FindOne into a strict lookup that fails
// with KindNotFound when the entity is absent.
func Require[K comparable, T any](ctx context.Context, repo Repository[K, T], id K) (*T, error) {
	entity, err := repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, newNotFound("no record with id %v", id)
	}
	return entity, nil
}
