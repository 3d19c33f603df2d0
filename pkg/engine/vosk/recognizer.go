//go:build vosk

package vosk

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
	"github.com/go-audio/wav"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Name 注册名
const Name = models.SourceVosk

// chunkSize 每次送入识别器的字节数
const chunkSize = 8000

func init() {
	engine.RegisterRecognizer(Name, func(cfg *models.Config) (engine.Recognizer, error) {
		return NewRecognizer(cfg.ModelPath)
	})
}

// Recognizer Vosk识别器。模型只加载一次，每条语音创建独立的识别器实例
type Recognizer struct {
	mu    sync.Mutex
	model *vosk.VoskModel
}

// NewRecognizer 加载模型
func NewRecognizer(modelPath string) (*Recognizer, error) {
	vosk.SetLogLevel(-1)
	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("加载模型 %s 失败: %w", modelPath, err)
	}
	if model == nil {
		return nil, fmt.Errorf("加载模型 %s 失败: 模型为空", modelPath)
	}
	utils.Info("Vosk模型已加载: %s", modelPath)
	return &Recognizer{model: model}, nil
}

// Name 实现 engine.Recognizer
func (r *Recognizer) Name() string {
	return Name
}

// Recognize 实现 engine.Recognizer
func (r *Recognizer) Recognize(ctx context.Context, utt models.Utterance) ([]alignment.HypothesisWord, error) {
	pcm, rate, err := readPCM16(utt.AudioPath)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	model := r.model
	r.mu.Unlock()
	if model == nil {
		return nil, fmt.Errorf("识别器已关闭")
	}

	rec, err := vosk.NewRecognizer(model, float64(rate))
	if err != nil {
		return nil, fmt.Errorf("创建识别器失败: %w", err)
	}
	defer rec.Free()
	rec.SetWords(1)

	var words []alignment.HypothesisWord
	for start := 0; start < len(pcm); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+chunkSize, len(pcm))
		if rec.AcceptWaveform(pcm[start:end]) > 0 {
			part, err := ParseResult(rec.Result())
			if err != nil {
				return nil, err
			}
			words = append(words, part...)
		}
	}

	final, err := ParseResult(rec.FinalResult())
	if err != nil {
		return nil, err
	}
	words = append(words, final...)
	utils.WithUtterance(utt.ID).Debugf("Vosk识别出 %d 个词", len(words))
	return words, nil
}

// Close 释放模型
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}

// readPCM16 读取单声道WAV并转换为16位小端PCM
func readPCM16(path string) ([]byte, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("打开音频文件失败: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("不是有效的WAV文件: %s", path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("读取PCM数据失败: %w", err)
	}
	if buf.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("需要单声道音频，实际为 %d 声道", buf.Format.NumChannels)
	}

	shift := buf.SourceBitDepth - 16
	pcm := make([]byte, len(buf.Data)*2)
	for i, s := range buf.Data {
		switch {
		case shift > 0:
			s >>= shift
		case shift < 0:
			s <<= -shift
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s)))
	}
	return pcm, buf.Format.SampleRate, nil
}
