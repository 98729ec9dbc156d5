// Package database opens the configured backing store and exposes it as
// repository implementations.
package database

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"taskify/internal/config"
	"taskify/internal/model"
	"taskify/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// Stores bundles the account and task stores of one backend.
type Stores struct {
	Accounts repository.AccountStore
	Tasks    repository.TaskStore

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

// Migrate prepares tables or indexes. Safe to run repeatedly.
func (s *Stores) Migrate(ctx context.Context) error { return s.migrate(ctx) }

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend selected by cfg.StoreDriver and pings it.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
		)
		return OpenGorm(postgres.Open(dsn))
	case config.DriverSQLite:
		return OpenGorm(sqlite.Open(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// OpenGorm wraps a GORM dialector in SQL-backed stores.
func OpenGorm(dialector gorm.Dialector) (*Stores, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stderr, "", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	slog.Info("connected to database", "driver", dialector.Name())

	return &Stores{
		Accounts: repository.NewUserRepository(db),
		Tasks:    repository.NewTaskRepository(db),
		ping:     sqlDB.PingContext,
		migrate: func(ctx context.Context) error {
			return db.WithContext(ctx).AutoMigrate(&model.User{}, &model.Task{})
		},
		close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

// OpenMongo connects to MongoDB and returns document-backed stores.
func OpenMongo(ctx context.Context, uri, dbName string) (*Stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	slog.Info("connected to database", "driver", "mongo", "database", dbName)

	db := client.Database(dbName)
	users := repository.NewMongoUserRepository(db.Collection(usersCollection))
	tasks := repository.NewMongoTaskRepository(db.Collection(tasksCollection))

	return &Stores{
		Accounts: users,
		Tasks:    tasks,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		migrate: func(ctx context.Context) error {
			if err := users.EnsureIndexes(ctx); err != nil {
				return err
			}
			return tasks.EnsureIndexes(ctx)
		},
		close: client.Disconnect,
	}, nil
}
