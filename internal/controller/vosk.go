//go:build vosk

package controller

// 使用 -tags vosk 构建时注册Vosk识别器
import _ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/vosk"
