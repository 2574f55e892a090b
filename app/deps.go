package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/JiscSD/openenum/registry"
	"github.com/JiscSD/openenum/schema"
)

// lazyS3Source creates the S3 client on first use so commands working on
// local files never need AWS credentials.
type lazyS3Source struct {
	logger logrus.FieldLogger
	config *Config
}

func (s lazyS3Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	storage, err := newObjectStorage(s.logger, s.config)
	if err != nil {
		return nil, err
	}
	return schema.S3Source{Storage: storage}.Fetch(ctx, location)
}

func newSource(logger logrus.FieldLogger, fs afero.Fs, config *Config) schema.Source {
	return schema.MultiSource{
		Local: schema.FileSource{Fs: fs},
		S3:    lazyS3Source{logger: logger, config: config},
		HTTP:  schema.HTTPSource{},
	}
}

func loadSchema(ctx context.Context, logger logrus.FieldLogger, fs afero.Fs, config *Config, location string) (*schema.File, error) {
	if location == "" {
		return nil, errors.New("schema location is empty: use --file")
	}
	return schema.Load(ctx, newSource(logger, fs, config), location)
}

// newStore opens the configured registry store. The returned function
// releases its resources.
func newStore(ctx context.Context, logger logrus.FieldLogger, config *Config) (registry.Store, func(), error) {
	noop := func() {}
	switch config.Registry.Store {
	case storeDynamoDB:
		client, err := newDynamoDB(logger, config)
		if err != nil {
			return nil, noop, err
		}
		return registry.NewStoreDynamoDB(client, config.Registry.Table), noop, nil
	case storeSQL:
		db, err := registry.OpenSQL(config.Registry.SQLDriver, config.Registry.SQLDSN, logrus.GetLevel() == logrus.DebugLevel)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Database could not be closed: ", err)
			}
		}
		store, err := registry.NewStoreSQL(ctx, db)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return store, closeDB, nil
	}
	return registry.NewMemoryStore(), noop, nil
}
