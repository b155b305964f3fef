// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RequiresHandler(t *testing.T) {
	useTempConfig(t)

	if _, err := NewWatcher(nil, nil); err == nil {
		t.Fatal("expected error for nil reload handler")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := useTempConfig(t)
	if err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reloaded := make(chan SeamctlConfig, 1)
	w, err := NewWatcher(func(cfg SeamctlConfig) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	content := "service:\n  api_root: http://rewritten:8000/api\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Service.APIRoot != "http://rewritten:8000/api" {
			t.Errorf("api root = %q", cfg.Service.APIRoot)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never fired")
	}

	if got := Get().Service.APIRoot; got != "http://rewritten:8000/api" {
		t.Errorf("Get after reload = %q", got)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	path := useTempConfig(t)
	if err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reloaded := make(chan SeamctlConfig, 1)
	w, err := NewWatcher(func(cfg SeamctlConfig) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	sibling := filepath.Join(filepath.Dir(path), "notes.txt")
	if err := os.WriteFile(sibling, []byte("unrelated"), 0644); err != nil {
		t.Fatalf("writing sibling: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("sibling file should not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_MalformedRewriteKeepsOldConfig(t *testing.T) {
	path := useTempConfig(t)
	if err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := Get().Service.APIRoot

	errs := make(chan error, 1)
	w, err := NewWatcher(func(SeamctlConfig) {}, func(e error) {
		select {
		case errs <- e:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("service: [broken"), 0644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	select {
	case <-errs:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload error")
	}

	if got := Get().Service.APIRoot; got != before {
		t.Errorf("config changed despite parse failure: %q", got)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	useTempConfig(t)
	if err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := NewWatcher(func(SeamctlConfig) {}, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	w.Stop()
	w.Stop()
}
