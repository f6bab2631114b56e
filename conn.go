package store

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type PGConfig struct {
	// Driver is the database/sql driver name: "pgx" (default) or "postgres" (lib/pq).
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

func (c PGConfig) driverName() string {
	if c.Driver == "" {
		return "pgx"
	}
	return c.Driver
}

// DSN renders the configuration as a postgres:// connection URL.
func (c PGConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}

	return u.String()
}

// ConnectPostgresql opens a pool usable as an Executor. The pool is owned by the caller.
func ConnectPostgresql(config PGConfig) (*sqlx.DB, error) {
	return sqlx.Open(config.driverName(), config.DSN())
}

// ConnectPostgresqlURL opens a pool from a connection URL with the given
// database/sql driver name.
func ConnectPostgresqlURL(driverName, connURL string) (*sqlx.DB, error) {
	return sqlx.Open(driverName, connURL)
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// ConnectMongo connects a client and verifies the primary is reachable. The
// client is owned by the caller.
func ConnectMongo(ctx context.Context, config MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, wrapMongoError(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, wrapMongoError(err)
	}

	return client, nil
}
