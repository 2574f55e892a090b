package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JiscSD/openenum/broker"
	"github.com/JiscSD/openenum/broker/message"
	"github.com/JiscSD/openenum/registry"
	"github.com/JiscSD/openenum/s3"
	"github.com/JiscSD/openenum/schema"
)

func NewCmdPublish(out io.Writer, logger logrus.FieldLogger, fs afero.Fs, config *Config) *cobra.Command {
	var file, upload string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Store the descriptors of a schema in the registry",
		Long: `Store the descriptors of a schema in the registry.

The schema can be uploaded to S3 first with --upload, in which case the
records point to the uploaded copy. When broker.topic_arn is set an event
is published for every enum so running servers reload their registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doPublish(cmd.Context(), out, logger, fs, config, file, upload)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Schema document (path, s3:// or http(s):// URL)")
	cmd.Flags().StringVar(&upload, "upload", "", "Upload the schema under this s3:// prefix")

	return cmd
}

func doPublish(ctx context.Context, out io.Writer, logger logrus.FieldLogger, fs afero.Fs, config *Config, file, upload string) error {
	if config.Registry.Store == storeNone {
		return errors.New("publish needs a registry store: set registry.store")
	}
	if file == "" {
		return errors.New("schema location is empty: use --file")
	}

	src := newSource(logger, fs, config)
	data, err := src.Fetch(ctx, file)
	if err != nil {
		return errors.Wrapf(err, "schema %s could not be fetched", file)
	}
	f, err := schema.Parse(file, data)
	if err != nil {
		return err
	}

	if upload != "" {
		if !strings.HasPrefix(upload, s3.Scheme+"://") {
			return errors.Errorf("upload location %s is not an s3:// URI", upload)
		}
		storage, err := newObjectStorage(logger, config)
		if err != nil {
			return err
		}
		if err := uploadSchema(ctx, logger, storage, f, data, upload); err != nil {
			return err
		}
	}

	store, closeStore, err := newStore(ctx, logger, config)
	if err != nil {
		return err
	}
	defer closeStore()

	var notifier *broker.Notifier
	if config.Broker.TopicARN != "" {
		client, err := newSNS(logger, config)
		if err != nil {
			return err
		}
		notifier = broker.NewNotifier(client, config.Broker.TopicARN)
	}

	return publish(ctx, out, logger, store, notifier, f, time.Now())
}

// publish stores one record per enum and, when notifier is not nil,
// announces each of them.
func publish(ctx context.Context, out io.Writer, logger logrus.FieldLogger, store registry.Store, notifier *broker.Notifier, f *schema.File, now time.Time) error {
	recs, err := registry.RecordsFromFile(f, now)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := store.Put(ctx, rec); err != nil {
			return err
		}
		logger.WithField("enum", rec.Name).Info("Descriptor stored")
		if notifier != nil {
			e := message.New(message.EventType_EVENT_TYPE_PUBLISHED, rec.Name, rec.Source)
			if err := notifier.Notify(ctx, e); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, rec.Name)
	}
	return nil
}

// uploadSchema copies the document under prefix and points f at the copy, so
// the records published from f name it as their source.
func uploadSchema(ctx context.Context, logger logrus.FieldLogger, storage s3.ObjectStorage, f *schema.File, data []byte, prefix string) error {
	uri := s3.Join(prefix, path.Base(schemaPath(f.Path)))
	if err := storage.Upload(ctx, bytes.NewReader(data), uri); err != nil {
		return errors.Wrapf(err, "schema could not be uploaded to %s", uri)
	}
	logger.WithField("uri", uri).Info("Schema uploaded")
	f.Path = uri
	return nil
}

// schemaPath drops the query string of URL locations.
func schemaPath(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}
