//go:build vosk

package main

import _ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/vosk"
