package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

const (
	// FileExt 批处理文件扩展名，监听模式按此识别
	FileExt = ".lst"
	// ReferencePrefix 参考文本以@开头时表示从文件读取
	ReferencePrefix = "@"
)

// LoadBatchFile 读取批处理文件。
// 每行格式: <音频路径> <参考文本...>，空行和#开头的注释行跳过
func LoadBatchFile(path string) ([]models.Utterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewError("打开批处理文件失败", err)
	}
	defer f.Close()

	return ParseBatch(f, path)
}

// ParseBatch 解析批处理内容，base用于解析相对路径
func ParseBatch(r io.Reader, base string) ([]models.Utterance, error) {
	var utterances []models.Utterance
	seen := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		audio := utils.ResolveRelative(base, fields[0])
		reference := strings.Join(fields[1:], " ")

		if strings.HasPrefix(reference, ReferencePrefix) {
			refPath := utils.ResolveRelative(base, strings.TrimPrefix(reference, ReferencePrefix))
			data, err := os.ReadFile(refPath)
			if err != nil {
				return nil, utils.NewError(fmt.Sprintf("第%d行: 读取参考文本失败", lineNo), err)
			}
			reference = strings.Join(strings.Fields(string(data)), " ")
		}

		id := models.UtteranceID(audio)
		if prev, ok := seen[id]; ok {
			return nil, utils.NewError(fmt.Sprintf("第%d行: 语音ID %s 与第%d行重复", lineNo, id, prev), nil)
		}
		seen[id] = lineNo

		utterances = append(utterances, models.Utterance{
			ID:        id,
			AudioPath: audio,
			Reference: reference,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, utils.NewError("读取批处理文件失败", err)
	}
	return utterances, nil
}
