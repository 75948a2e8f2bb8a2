package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/repository"
	jsonfile "storefront/internal/repository/json"
	"storefront/internal/repository/sqlstore"
)

// Storage is the repository pair the services run on plus its cleanup.
type Storage struct {
	Sections repository.Sections
	Orders   repository.Orders
	close    func() error
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func BuildStorage(ctx context.Context, profile *config.Config, log *slog.Logger) (*Storage, error) {
	switch profile.Storage.Backend {
	case "json":
		log.Info("storage", "backend", "json", "dir", profile.Storage.DataDir)
		repo := jsonfile.New(profile.Storage.DataDir, log.With("component", "jsonfile"))
		return &Storage{Sections: repo, Orders: repo}, nil

	case "sql":
		d, err := sqlstore.ParseDialect(profile.Storage.SQL.Driver)
		if err != nil {
			return nil, err
		}
		st, err := sqlstore.Open(ctx, sqlstore.Options{
			Dialect:      d,
			DSN:          profile.Storage.SQL.DSN,
			MaxOpenConns: profile.Storage.SQL.MaxOpenConns,
			Log:          log.With("component", "sqlstore"),
		})
		if err != nil {
			return nil, err
		}
		if err := st.EnsureSchema(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		log.Info("storage", "backend", "sql", "dialect", d)
		return &Storage{Sections: st, Orders: st, close: st.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend=%q", profile.Storage.Backend)
	}
}
