// Package fixture holds annotated repositories used to exercise generated
// code end to end.
package fixture

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	store "github.com/likearthian/storegen"
)

//go:generate go run github.com/likearthian/storegen/cmd/storegen

type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

//store:postgres
//store:entity User
//store:id int64
type UserRepository struct {
	Exec    store.Executor
	Options []store.DriverOption
}

type Account struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

//store:mongo
//store:entity Account
//store:id primitive.ObjectID
//store:collection accounts
type AccountRepository struct {
	Client   *mongo.Client
	Database string
}

// AuditEntry is written by AuditLog; CreatedAt is filled by the database.
//
//store:entity
type AuditEntry struct {
	EntryID   int64     `db:"entry_id,key"`
	Action    string    `db:"action"`
	Actor     string    `db:"actor,allownull"`
	CreatedAt time.Time `db:"created_at,auto"`
}

//store:postgres
//store:entity AuditEntry
//store:id int64
//store:table audit_log
//store:idcolumn entry_id
type AuditLog struct {
	Exec store.Executor
}
