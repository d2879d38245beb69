package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
	SQLite   DBType = "sqlite"
)

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
	Ping(ctx context.Context) error
}
