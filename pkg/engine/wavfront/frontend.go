// Package wavfront 直接分析PCM WAV音频的前端：按帧能量判断语音，并输出简单特征
package wavfront

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Name 注册名
const Name = models.SourceWAV

// FeatureDim 每帧特征维数: [对数能量, 过零率]
const FeatureDim = 2

// DefaultHangover 语音结束后继续标记为语音的帧数
const DefaultHangover = 8

func init() {
	engine.RegisterFrontend(Name, func(cfg *models.Config) (engine.Frontend, error) {
		return New(cfg.VADEnergyThreshold, DefaultHangover), nil
	})
}

// Frontend 基于能量的WAV前端
type Frontend struct {
	thresholdDB float64
	hangover    int
}

// New 创建前端。thresholdDB是判为语音的最小帧能量(dBFS)
func New(thresholdDB float64, hangover int) *Frontend {
	if hangover < 0 {
		hangover = 0
	}
	return &Frontend{thresholdDB: thresholdDB, hangover: hangover}
}

// Name 实现 engine.Frontend
func (f *Frontend) Name() string {
	return Name
}

// Extract 实现 engine.Frontend
func (f *Frontend) Extract(ctx context.Context, utt models.Utterance) ([]alignment.FrameEvent, error) {
	samples, rate, err := Load(utt.AudioPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := f.Analyze(samples, rate)
	utils.WithUtterance(utt.ID).Debugf("WAV前端: 采样率 %d，%d 个事件", rate, len(events))
	return events, nil
}

// Load 读取WAV文件，多声道取平均，返回 [-1, 1] 范围的单声道采样
func Load(path string) ([]float64, int, error) {
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
	return mono(buf), buf.Format.SampleRate, nil
}

func mono(buf *audio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := math.Pow(2, float64(depth-1))

	out := make([]float64, len(buf.Data)/channels)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = sum / float64(channels) / scale
	}
	return out
}

// Analyze 把采样切分为帧，每帧输出一个语音分类事件和一个特征事件
func (f *Frontend) Analyze(samples []float64, rate int) []alignment.FrameEvent {
	size := rate * int(alignment.FrameStep) / 1000
	if size <= 0 || len(samples) == 0 {
		return nil
	}

	frames := len(samples) / size
	events := make([]alignment.FrameEvent, 0, frames*2)
	quiet := f.hangover + 1 // 录音开头不继承语音状态

	for i := 0; i < frames; i++ {
		chunk := samples[i*size : (i+1)*size]
		energy, zcr := measure(chunk)

		if dbfs(energy) >= f.thresholdDB {
			quiet = 0
		} else {
			quiet++
		}
		isSpeech := quiet <= f.hangover

		t := alignment.Time(i) * alignment.FrameStep
		events = append(events,
			alignment.SpeechEvent(t, isSpeech),
			alignment.FeatureEvent(t, alignment.FeatureVector{float32(math.Log(energy + 1e-10)), float32(zcr)}),
		)
	}
	return events
}

// measure 返回帧的均方能量和过零率
func measure(chunk []float64) (energy, zcr float64) {
	crossings := 0
	for i, s := range chunk {
		energy += s * s
		if i > 0 && (s >= 0) != (chunk[i-1] >= 0) {
			crossings++
		}
	}
	n := float64(len(chunk))
	energy /= n
	if len(chunk) > 1 {
		zcr = float64(crossings) / (n - 1)
	}
	return energy, zcr
}

func dbfs(energy float64) float64 {
	if energy <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(energy)
}
