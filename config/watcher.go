// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"code.vegaprotocol.io/simex/logging"

	"github.com/fsnotify/fsnotify"
)

const (
	namedLogger = "cfgwatcher"
	// vi and friends replace the file rather than writing it in place
	renameGracePeriod = 50 * time.Millisecond
)

// Watcher is looking for updates in the configuration file.
type Watcher struct {
	log  *logging.Logger
	cfg  Config
	path string

	// to be used as an atomic
	hasChanged         int32
	cfgUpdateListeners []func(Config)
	mu                 sync.Mutex
}

// NewWatcher loads the configuration file at path, Run must be called
// for updates to be picked up.
func NewWatcher(log *logging.Logger, path string) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// set this logger to debug level as we want to be notified for any configuration changes at any time
	watcherlog.SetLevel(logging.DebugLevel)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		log:                watcherlog,
		path:               abs,
		cfgUpdateListeners: []func(Config){},
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

// Run watches the file until ctx is done. Updates are only handed to the
// listeners on the next call to Notify.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// watch the directory, the file itself may be replaced
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.log.Info("config watcher started successfully",
		logging.String("config", w.path))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.onEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher ctx done")
			return ctx.Err()
		}
	}
}

func (w *Watcher) onEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Rename) || event.Has(fsnotify.Create) {
		time.Sleep(renameGracePeriod)
	}
	w.log.Info("configuration updated", logging.String("event", event.Name))
	if err := w.load(); err != nil {
		w.log.Error("unable to load configuration", logging.Error(err))
		return
	}
	// set hasChanged to 1 to trigger configs update
	// on the next notify
	atomic.StoreInt32(&w.hasChanged, 1)
}

// Notify hands the configuration to the listeners if the file changed
// since the last call. It is called by the replay loop between two
// steps, so engines are never reloaded in the middle of one.
func (w *Watcher) Notify() bool {
	if !atomic.CompareAndSwapInt32(&w.hasChanged, 1, 0) {
		// no changes we can return straight away
		return false
	}
	cfg := w.Get()
	w.mu.Lock()
	listeners := append([]func(Config){}, w.cfgUpdateListeners...)
	w.mu.Unlock()
	for _, f := range listeners {
		f(cfg)
	}
	return true
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	conf := w.cfg
	w.mu.Unlock()
	return conf
}

// OnConfigUpdate register a function to be called when the configuration is getting updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	cfg, err := Read(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = *cfg
	w.mu.Unlock()
	return nil
}
