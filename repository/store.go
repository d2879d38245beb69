package repository

import (
	"fmt"
	"log/slog"

	"milkledger/config"
	"milkledger/db"
	mongodb "milkledger/db/mongo"
	"milkledger/db/postgres"
	"milkledger/db/sqlite"
)

// Store bundles the open connection with the repositories built on it.
type Store struct {
	Conn      db.DB
	Users     UserRepository
	Customers CustomerRepository
	Milk      MilkRepository
	Reports   *ReportRepository
}

// OpenStore connects to the backend named by cfg.DBType, applies SQL
// migrations and wires the matching repositories.
func OpenStore(cfg *config.Config) (*Store, error) {
	s := &Store{}
	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.RunMigrations(db.Postgres, pg.Conn); err != nil {
			pg.Disconnect()
			return nil, err
		}
		s.Conn = pg
		s.Users = NewPostgresUserRepo(pg.Conn)
		s.Customers = NewPostgresCustomerRepo(pg.Conn)
		s.Milk = NewPostgresMilkRepo(pg.Conn)

	case db.SQLite:
		lite := sqlite.NewSQLiteDB(cfg.SQLitePath)
		if err := lite.Connect(); err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := db.RunMigrations(db.SQLite, lite.Conn); err != nil {
			lite.Disconnect()
			return nil, err
		}
		s.Conn = lite
		s.Users = NewSQLiteUserRepo(lite.Conn)
		s.Customers = NewSQLiteCustomerRepo(lite.Conn)
		s.Milk = NewSQLiteMilkRepo(lite.Conn)

	case db.Mongo:
		mg := mongodb.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
		if err := mg.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		s.Conn = mg
		s.Users = NewMongoUserRepo(mg.Database)
		s.Customers = NewMongoCustomerRepo(mg.Database)
		s.Milk = NewMongoMilkRepo(mg.Database)

	default:
		return nil, fmt.Errorf("DB_TYPE %q not supported", cfg.DBType)
	}

	s.Reports = NewReportRepository(s.Milk)
	slog.Info("store ready", "db_type", cfg.DBType)
	return s, nil
}

func (s *Store) Close() error {
	return s.Conn.Disconnect()
}
