// Package assets indexes the asset directory, loads compiled shaders and,
// when asked to, watches the directory for changes.
package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/lumen/engine/core"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindShader
)

type AssetInfo struct {
	Path     string
	Kind     Kind
	Modified time.Time
}

type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[Kind]Loader
	changed map[string]struct{}

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

// NewAssetManager indexes every known asset under root. With watch set, a
// background goroutine records files that are created or rewritten; the
// frame loop collects them with Changed.
func NewAssetManager(root string, watch bool) (*AssetManager, error) {
	am := &AssetManager{
		root:    root,
		assets:  make(map[string]AssetInfo),
		loaders: make(map[Kind]Loader),
		changed: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	am.registerLoader(KindShader, &ShaderLoader{})

	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, errors.Wrap(err, "creating file watcher")
		}
		am.fsnotify = w
	}

	if err := am.watchRecursive(root); err != nil {
		am.Close()
		return nil, err
	}
	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}
	core.LogInfo("indexed %d assets under %s", am.Count(), root)
	return am, nil
}

func (am *AssetManager) registerLoader(kind Kind, loader Loader) {
	am.loaders[kind] = loader
}

// Shader loads the compiled shader shaders/<name>.spv.
func (am *AssetManager) Shader(name string) ([]byte, error) {
	return am.Load(filepath.Join("shaders", name+".spv"))
}

// Load reads the asset at path, relative to the asset root.
func (am *AssetManager) Load(path string) ([]byte, error) {
	am.mutex.RLock()
	asset, exists := am.assets[filepath.Clean(path)]
	am.mutex.RUnlock()
	if !exists {
		return nil, errors.Newf("asset not found: %s", path)
	}

	loader, ok := am.loaders[asset.Kind]
	if !ok {
		return nil, errors.Newf("no loader registered for asset kind %d", asset.Kind)
	}
	return loader.Load(filepath.Join(am.root, asset.Path))
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Changed returns, sorted, the assets written since the previous call.
func (am *AssetManager) Changed() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if len(am.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(am.changed))
	for p := range am.changed {
		out = append(out, p)
	}
	clear(am.changed)
	slices.Sort(out)
	return out
}

// Close stops the watcher. It is safe to call more than once.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogWarn("asset watcher: %s", err)

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("asset watcher: %s", err)
			}
			return
		}
	}
	rel, err := filepath.Rel(am.root, e.Name)
	if err != nil {
		return
	}
	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if am.handleFileEvent(rel) {
			am.mutex.Lock()
			am.changed[rel] = struct{}{}
			am.mutex.Unlock()
			core.LogDebug("asset changed: %s", rel)
		}
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		am.removeAsset(rel)
	}
}

// watchRecursive indexes the files under path and, when watching, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "indexing assets")
		}
		if d.IsDir() {
			if am.fsnotify != nil {
				return errors.Wrapf(am.fsnotify.Add(walkPath), "watching %s", walkPath)
			}
			return nil
		}
		rel, err := filepath.Rel(am.root, walkPath)
		if err != nil {
			return err
		}
		am.handleFileEvent(rel)
		return nil
	})
}

// handleFileEvent records path in the index and reports whether it is a
// known asset kind.
func (am *AssetManager) handleFileEvent(path string) bool {
	kind := determineAssetKind(path)
	if kind == KindNone {
		return false
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[path] = AssetInfo{
		Path:     path,
		Kind:     kind,
		Modified: time.Now(),
	}
	return true
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, path)
}

func determineAssetKind(path string) Kind {
	switch filepath.Ext(path) {
	case ".spv":
		return KindShader
	default:
		return KindNone
	}
}
