// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor write bursts into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ReloadHandler receives the configuration after a successful reload.
type ReloadHandler func(SeamctlConfig)

// ErrorHandler receives reload failures. The watcher keeps running;
// the previous configuration stays active.
type ErrorHandler func(error)

// Watcher reloads the config file when it changes on disk. It watches
// the parent directory because editors replace files by rename, which
// drops a watch placed on the file itself.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload ReloadHandler
	onError  ErrorHandler

	watcher  *fsnotify.Watcher
	changed  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the active config file. onError may
// be nil.
func NewWatcher(onReload ReloadHandler, onError ErrorHandler) (*Watcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("reload handler is required")
	}
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onReload: onReload,
		onError:  onError,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// WithDebounce overrides the reload delay. Zero keeps the default.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Start begins watching. Runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = fsw

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop ends watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(fmt.Errorf("config watch: %w", err))
		}
	}
}

// relevant filters directory noise down to writes of the config file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		timer = nil
		timerC = nil
		if err := Reload(); err != nil {
			w.reportError(err)
			return
		}
		w.onReload(Get())
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.changed:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			reload()
		}
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
