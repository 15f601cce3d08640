package app

import (
	"context"
	"path/filepath"

	"github.com/substantial-kst/vscode-macros/internal/config/watcher"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handler"
	"github.com/substantial-kst/vscode-macros/internal/dispatcher/handlers/macro"
)

// Regeneration reports one regeneration pass triggered by a file change.
type Regeneration struct {
	Path   string
	Result handler.Result
	Saved  bool
	Err    error
}

// Watch regenerates test blocks in each of paths whenever the file is
// written, saving the result back. Settings files are reloaded while
// watching. It blocks until ctx is cancelled and reports every pass to fn.
func (app *Application) Watch(ctx context.Context, paths []string, fn func(Regeneration)) error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if err := w.Add(abs); err != nil {
			return &FileError{Op: "watch", Path: p, Err: err}
		}
	}

	cfgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := app.config.Watch(cfgCtx); err != nil {
			app.logger.WithComponent("config").Warn("settings watch stopped: %v", err)
		}
	}()

	log := app.logger.WithComponent("watch")
	log.Info("watching %d files", len(paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if !ev.Op.Has(watcher.OpWrite) && !ev.Op.Has(watcher.OpCreate) {
				continue
			}
			regen := app.Regenerate(ev.Path)
			if regen.Err != nil {
				log.Warn("%s: %v", ev.Path, regen.Err)
			}
			if fn != nil {
				fn(regen)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("%v", err)
		}
	}
}

// Regenerate loads path, runs the test file generator on it and saves the
// document when it changed.
func (app *Application) Regenerate(path string) Regeneration {
	regen := Regeneration{Path: path}

	doc, err := OpenDocument(path)
	if err != nil {
		regen.Err = err
		return regen
	}

	regen.Result, regen.Err = app.Execute(macro.ActionGenerateRubyTestFile, doc, nil)
	if regen.Err != nil {
		return regen
	}
	if regen.Result.IsError() {
		regen.Err = regen.Result.Error
		return regen
	}

	if doc.IsModified() {
		if err := doc.Save(); err != nil {
			regen.Err = err
			return regen
		}
		regen.Saved = true
	}
	return regen
}
