package game

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce 同一文件两次事件的最小间隔
const DefaultWatchDebounce = 100 * time.Millisecond

// CatalogWatcher 监听目的地目录和巡游脚本的改动
//
// 监听文件所在目录（编辑器常用"写临时文件再重命名"的方式保存），
// 只转发被关注文件的写入、创建、重命名事件。
// 主循环每帧调用 Poll() 取走变化的文件，不会阻塞。
type CatalogWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	events   chan string
	errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

// NewCatalogWatcher 创建文件监听器
//
// 参数：
//   - files: 需要关注的文件路径（磁盘路径）
//
// 返回：
//   - 监听器实例
//   - 错误（fsnotify 初始化失败或目录不存在）
func NewCatalogWatcher(files ...string) (*CatalogWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &CatalogWatcher{
		watcher:  fw,
		files:    make(map[string]bool, len(files)),
		events:   make(chan string, 16),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
		debounce: DefaultWatchDebounce,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	go w.run()
	log.Printf("[CatalogWatcher] Watching %d file(s) in %d dir(s)", len(w.files), len(dirs))
	return w, nil
}

// Poll 取走自上次调用以来发生变化的文件（去重，非阻塞）
func (w *CatalogWatcher) Poll() []string {
	var changed []string
	seen := make(map[string]bool)
	for {
		select {
		case name, ok := <-w.events:
			if !ok {
				return changed
			}
			if !seen[name] {
				seen[name] = true
				changed = append(changed, name)
			}
		case err, ok := <-w.errors:
			if ok {
				log.Printf("[CatalogWatcher] Warning: %v", err)
			}
		default:
			return changed
		}
	}
}

// Close 停止监听，可重复调用
func (w *CatalogWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *CatalogWatcher) run() {
	defer close(w.done)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[name] = now

			select {
			case w.events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
