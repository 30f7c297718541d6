package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"softengine/internal/logging"
	"softengine/internal/mesh"
)

// watchScene reloads the scene file whenever it is written or replaced and
// hands the new meshes to out, dropping a reload the game has not picked up
// yet. The directory is watched because editors often save by rename.
func watchScene(path string, load func() ([]*mesh.Mesh, error), out chan []*mesh.Mesh) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				meshes, err := load()
				if err != nil {
					logging.Logger().Warn("scene reload failed", "path", path, "err", err)
					continue
				}
				// Replace any pending reload with the newest one
				select {
				case <-out:
				default:
				}
				out <- meshes
				logging.Logger().Info("scene reloaded", "path", path, "meshes", len(meshes))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Logger().Warn("scene watcher", "err", err)
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
