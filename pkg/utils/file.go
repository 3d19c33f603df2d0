package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadJSONFile 读取JSON文件并解析到out
func LoadJSONFile(filePath string, out interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

// SaveJSONFile 保存数据到JSON文件
func SaveJSONFile(filePath string, data interface{}) error {
	// 确保目录存在
	if err := EnsureDirExists(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

// CheckFileExists 检查文件是否存在
func CheckFileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckDirExists 检查目录是否存在
func CheckDirExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirExists 确保目录存在，如果不存在则创建
func EnsureDirExists(dirPath string) error {
	if dirPath == "" {
		return nil // 空路径视为可选
	}
	if !CheckDirExists(dirPath) {
		return os.MkdirAll(dirPath, 0755)
	}
	return nil
}

// TrimExt 去掉文件名的扩展名，multiExt用于处理 .rec.json 这类复合扩展名
func TrimExt(path string, multiExt ...string) string {
	for _, ext := range multiExt {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ResolveRelative 相对路径按base所在目录解析
func ResolveRelative(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(base), path)
}
