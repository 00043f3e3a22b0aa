package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cours-de-latin/koref"
	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 200 * time.Millisecond

// ReloadLexicon reads the configured lexicon file again and swaps the
// analyzer. On error the previous analyzer stays in service.
func (s *Server) ReloadLexicon() error {
	if s.lexiconPath == "" {
		return fmt.Errorf("no lexicon file configured")
	}
	lx, err := koref.LoadLexicon(s.lexiconPath)
	if err != nil {
		return err
	}
	s.analyzer.Store(koref.New(koref.WithLexicon(lx), koref.WithLogger(s.log)))
	s.docs.Flush()
	s.log.Info("lexicon reloaded", "path", s.lexiconPath)
	return nil
}

// WatchLexicon reloads the lexicon whenever its file changes, until ctx
// is done. Editors replace files by rename, so the directory is watched.
func (s *Server) WatchLexicon(ctx context.Context) error {
	if s.lexiconPath == "" {
		return fmt.Errorf("no lexicon file configured")
	}
	abs, err := filepath.Abs(s.lexiconPath)
	if err != nil {
		return fmt.Errorf("lexicon path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	s.log.Info("watching lexicon", "path", abs)

	go func() {
		defer w.Close()
		timer := time.NewTimer(reloadDelay)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					timer.Reset(reloadDelay)
				}
			case <-timer.C:
				if err := s.ReloadLexicon(); err != nil {
					s.log.Error("reload lexicon", "path", abs, "err", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error("lexicon watcher", "err", err)
			}
		}
	}()
	return nil
}
