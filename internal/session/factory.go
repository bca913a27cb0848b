package session

import (
	"fmt"
	"log/slog"
)

type StoreConfig struct {
	Driver string // cookie | mysql
	Cookie CookieOptions

	// cookie driver
	HashKey  []byte
	BlockKey []byte

	// mysql driver
	DSN string
}

type FactoryResult struct {
	Driver string
	Store  Store
	Close  func() error
}

func NewStore(cfg StoreConfig, logger *slog.Logger) (FactoryResult, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "cookie"
	}

	switch driver {
	case "cookie":
		if len(cfg.HashKey) == 0 {
			return FactoryResult{}, fmt.Errorf("session: cookie driver needs a hash key")
		}
		return FactoryResult{
			Driver: "cookie",
			Store:  NewCookieStore(cfg.Cookie, cfg.HashKey, cfg.BlockKey),
			Close:  func() error { return nil },
		}, nil

	case "mysql":
		if cfg.DSN == "" {
			return FactoryResult{}, fmt.Errorf("session: mysql driver needs DB_DSN")
		}
		db, err := OpenMySQL(cfg.DSN)
		if err != nil {
			return FactoryResult{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{
			Driver: "mysql",
			Store:  NewGormStore(db, cfg.Cookie, logger),
			Close:  sqlDB.Close,
		}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown SESSION_DRIVER: %s", driver)
	}
}
