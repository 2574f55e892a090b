// Package registry keeps the descriptors published by schema owners so a
// long running process can decode values of enums it was not built with.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JiscSD/openenum/openenum"
)

// DefaultReloadInterval is used when NewRegistry is given no interval.
const DefaultReloadInterval = 10 * time.Second

type entry struct {
	desc *openenum.Descriptor
	rec  Record
}

// Registry is an in-memory copy of a Store, refreshed periodically.
type Registry struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   logrus.FieldLogger
	store    Store
	interval time.Duration
	reloadCh chan struct{}
	stopCh   chan chan struct{}
	r        map[string]entry
	sync.RWMutex
}

// NewRegistry loads the store and starts the reload loop.
func NewRegistry(logger logrus.FieldLogger, store Store, interval time.Duration) (*Registry, error) {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	r := &Registry{
		logger:   logger,
		store:    store,
		interval: interval,
		reloadCh: make(chan struct{}),
		stopCh:   make(chan chan struct{}),
		r:        make(map[string]entry),
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	if err := r.load(); err != nil {
		r.cancel()
		return nil, errors.Wrap(err, "registry failed to load from source")
	}
	go r.loop()
	return r, nil
}

// load replaces the local copy. Records that do not describe a valid enum
// are skipped.
func (r *Registry) load() error {
	recs, err := r.store.List(r.ctx)
	if err != nil {
		return err
	}
	if len(recs) < 1 {
		r.logger.Warn("Registry has been loaded but it is empty")
	}
	newMap := make(map[string]entry, len(recs))
	for _, rec := range recs {
		d, err := rec.Descriptor()
		if err != nil {
			r.logger.WithError(err).WithField("enum", rec.Name).Warn("Ignoring invalid registry record")
			continue
		}
		newMap[rec.Name] = entry{desc: d, rec: rec}
	}
	r.Lock()
	r.r = newMap
	r.Unlock()
	return nil
}

func (r *Registry) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case ch := <-r.stopCh:
			r.cancel()
			close(ch)
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
		case <-r.reloadCh:
		}
		if err := r.load(); err != nil {
			r.logger.WithError(err).Error("Registry reload failed")
		}
	}
}

// Get returns the descriptor of the enum with the given full name.
func (r *Registry) Get(name string) (*openenum.Descriptor, bool) {
	r.RLock()
	defer r.RUnlock()
	e, ok := r.r[name]
	return e.desc, ok
}

// Record returns the stored record of an enum.
func (r *Registry) Record(name string) (Record, bool) {
	r.RLock()
	defer r.RUnlock()
	e, ok := r.r[name]
	return e.rec, ok
}

// Names returns the sorted full names of every known enum.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, len(r.r))
	for name := range r.r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload is a non-blocking request to reload the registry. The operation is
// omitted if it is already happening.
func (r *Registry) Reload() {
	select {
	case r.reloadCh <- struct{}{}:
		r.logger.Debug("Reloading registry")
	default:
		r.logger.Debug("The registry is currently reloading the entries")
	}
}

func (r *Registry) Stop() {
	ch := make(chan struct{})
	r.stopCh <- ch
	<-ch
}
