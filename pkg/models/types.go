package models

import (
	"path/filepath"
	"strings"
)

// Utterance 一条待对齐的语音：音频、参考文本和可选的识别结果文件
type Utterance struct {
	ID        string `json:"id"`
	AudioPath string `json:"audio_path"`
	Reference string `json:"reference"`
	DumpPath  string `json:"dump_path,omitempty"` // 识别结果文件 (.rec.json)
}

// UtteranceID 由音频路径得到语音ID（去掉目录和扩展名）
func UtteranceID(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
