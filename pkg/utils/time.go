package utils

import (
	"fmt"
	"time"
)

// FormatTimeDuration 格式化时间长度为易读格式
func FormatTimeDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatSRTTimestamp 把毫秒格式化为SRT时间戳 HH:MM:SS,mmm
func FormatSRTTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	secs := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// GetCurrentTimeString 获取当前时间的字符串表示
func GetCurrentTimeString() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
