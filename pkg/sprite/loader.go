package sprite

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"strings"

	"github.com/decker502/walkers/pkg/embedded"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// LoadResult 精灵图加载结果
type LoadResult struct {
	Path   string
	Image  image.Image
	Width  int // 原始像素宽度
	Height int // 原始像素高度
	Err    error
}

// OpenFunc 打开资源的函数，便于测试替换
type OpenFunc func(path string) (io.ReadCloser, error)

// OpenResource 打开精灵图资源
//
// "assets/" 前缀且嵌入资源已初始化时从嵌入资源读取，否则从文件系统读取。
func OpenResource(path string) (io.ReadCloser, error) {
	if embedded.IsInitialized() && strings.HasPrefix(strings.TrimPrefix(path, "./"), "assets/") {
		return embedded.Open(path)
	}
	return os.Open(path)
}

// Decode 解码精灵图（支持 PNG / JPEG / WebP）
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadSheet 同步加载精灵图
func LoadSheet(open OpenFunc, path string) LoadResult {
	res := LoadResult{Path: path}

	rc, err := open(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to open sprite sheet %s: %w", path, err)
		return res
	}
	defer rc.Close()

	img, err := Decode(rc)
	if err != nil {
		res.Err = fmt.Errorf("failed to decode sprite sheet %s: %w", path, err)
		return res
	}

	b := img.Bounds()
	res.Image = img
	res.Width, res.Height = b.Dx(), b.Dy()
	return res
}

// Loader 异步加载精灵图
//
// 解码在独立 goroutine 中进行，帧循环通过 Poll 非阻塞地取结果；
// 加载完成事件只会被 Poll 报告一次。
type Loader struct {
	ch       chan LoadResult
	finished bool
}

// StartLoad 启动异步加载
func StartLoad(open OpenFunc, path string) *Loader {
	l := &Loader{ch: make(chan LoadResult, 1)}
	go func() {
		l.ch <- LoadSheet(open, path)
	}()
	return l
}

// Poll 非阻塞地检查加载是否完成
//
// 返回:
//   - LoadResult: 加载结果（成功或失败）
//   - bool: 本次调用是否为加载完成事件；完成后的后续调用都返回 false
func (l *Loader) Poll() (LoadResult, bool) {
	if l.finished {
		return LoadResult{}, false
	}
	select {
	case res := <-l.ch:
		l.finished = true
		return res, true
	default:
		return LoadResult{}, false
	}
}

// Finished 加载完成事件是否已经被报告
func (l *Loader) Finished() bool {
	return l.finished
}
