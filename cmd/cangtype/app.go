package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/logger"
	"github.com/verte-zerg/cangtype/internal/progress"
	"github.com/verte-zerg/cangtype/internal/store"
)

const dictTimeout = 10 * time.Second

type app struct {
	db       *store.Store
	lessons  []catalog.Lesson
	progress *progress.Store
	dict     *dictionary.Cache
	log      *zap.Logger
}

// openApp wires the catalog, the SQLite store, profile progress and the
// dictionary cache from the resolved flag values.
func openApp(ds dictSettings) (*app, error) {
	log, err := logger.New(logEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	lessons, err := catalog.LoadFile(catalogPath, catalog.WithLogger(log.Named("catalog")))
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	ps := progress.NewStore(db, progress.WithLogger(log.Named("progress")))
	ps.Load(context.Background())

	sources := dictionary.Chain{}
	if ds.url != "" {
		sources = append(sources, dictionary.NewHTTPSource(ds.url, dictTimeout))
	}
	sources = append(sources, dictionary.NewCatalogSource(lessons))
	dict := dictionary.NewCache(sources, db,
		dictionary.WithTTL(ds.ttl),
		dictionary.WithSize(ds.size),
		dictionary.WithLogger(log.Named("dictionary")),
	)

	return &app{db: db, lessons: lessons, progress: ps, dict: dict, log: log}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	// Sync fails on terminals; nothing useful to report.
	_ = a.log.Sync()
}
