//go:build android

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 存储目录存在并可写
//
// gdata 在 Android 上使用 /data/data/{package}/ 作为根目录，但不会预先创建
// 应用子目录；必须在 gdata.Open 之前调用。
func EnsureStorageDir(appName string) error {
	root := GetStoragePath()
	if root == "" {
		return errors.New("failed to detect Android package name")
	}

	dir := filepath.Join(root, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	os.Remove(testFile)
	return nil
}

// GetStoragePath 获取 Android 应用数据目录
// 包名取自 /proc/self/cmdline（以 NUL 结尾）
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	pkg := string(bytes.TrimSpace(data))
	if pkg == "" {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
