package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

// 扫描时识别的文件扩展名
const (
	DumpExt      = ".rec.json"
	ReferenceExt = ".txt"
	AudioExt     = ".wav"
)

// UtteranceFile 扫描到的一条语音及其文件信息
type UtteranceFile struct {
	models.Utterance
	ModTime time.Time // 识别结果文件的修改时间
}

// UtteranceScanner 在识别结果文件夹中查找成对的 .rec.json 和 .txt 文件
type UtteranceScanner struct {
	RequireReference bool // 为true时跳过没有参考文本的识别结果
}

// NewUtteranceScanner 创建新的语音扫描器
func NewUtteranceScanner() *UtteranceScanner {
	return &UtteranceScanner{RequireReference: true}
}

// ScanDirectory 扫描指定目录（非递归），按语音ID排序返回
func (s *UtteranceScanner) ScanDirectory(dir string) ([]UtteranceFile, error) {
	logrus.Infof("开始扫描目录: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []UtteranceFile
	for _, entry := range entries {
		name := entry.Name()
		// 跳过目录和隐藏文件
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, DumpExt) {
			continue
		}

		file, err := s.scanDump(filepath.Join(dir, name), entry)
		if err != nil {
			logrus.Warnf("%v，跳过", err)
			continue
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	logrus.Infof("扫描完成，共找到 %d 条语音", len(files))
	return files, nil
}

// ScanFile 由单个识别结果文件构建语音，监听模式下使用
func (s *UtteranceScanner) ScanFile(dumpPath string) (UtteranceFile, error) {
	if !strings.HasSuffix(dumpPath, DumpExt) {
		return UtteranceFile{}, fmt.Errorf("不是识别结果文件: %s", dumpPath)
	}
	info, err := os.Stat(dumpPath)
	if err != nil {
		return UtteranceFile{}, err
	}
	return s.scanDump(dumpPath, fs.FileInfoToDirEntry(info))
}

// scanDump 查找与识别结果同名的参考文本和音频
func (s *UtteranceScanner) scanDump(dumpPath string, entry fs.DirEntry) (UtteranceFile, error) {
	info, err := entry.Info()
	if err != nil {
		return UtteranceFile{}, fmt.Errorf("获取文件信息失败: %w", err)
	}

	dir := filepath.Dir(dumpPath)
	id := strings.TrimSuffix(filepath.Base(dumpPath), DumpExt)
	utt := models.Utterance{
		ID:       id,
		DumpPath: dumpPath,
	}

	refPath := filepath.Join(dir, id+ReferenceExt)
	ref, err := os.ReadFile(refPath)
	switch {
	case err == nil:
		utt.Reference = strings.Join(strings.Fields(string(ref)), " ")
	case s.RequireReference:
		return UtteranceFile{}, fmt.Errorf("缺少参考文本: %s", refPath)
	}

	audioPath := filepath.Join(dir, id+AudioExt)
	if _, err := os.Stat(audioPath); err == nil {
		utt.AudioPath = audioPath
	}

	return UtteranceFile{Utterance: utt, ModTime: info.ModTime()}, nil
}

// Utterances 只返回语音信息
func Utterances(files []UtteranceFile) []models.Utterance {
	out := make([]models.Utterance, 0, len(files))
	for _, f := range files {
		out = append(out, f.Utterance)
	}
	return out
}

// FilterNewFiles 根据已处理记录过滤出新语音
func (s *UtteranceScanner) FilterNewFiles(files []UtteranceFile, processed map[string]bool) []UtteranceFile {
	var newFiles []UtteranceFile
	for _, file := range files {
		if !processed[file.DumpPath] {
			newFiles = append(newFiles, file)
		}
	}

	logrus.Infof("过滤后剩余 %d 条新语音需要处理", len(newFiles))
	return newFiles
}
