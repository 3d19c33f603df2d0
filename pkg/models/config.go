package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// 识别器和前端的可选实现
const (
	SourceDump = "dump" // 读取 .rec.json 识别结果文件
	SourceWAV  = "wav"  // 直接分析WAV音频
	SourceVosk = "vosk" // 本地Vosk模型
)

// Config 表示应用程序的配置
type Config struct {
	BatchFile          string  `json:"batch_file" yaml:"batch_file"`                     // 批处理文件，每行: 音频路径 参考文本
	DumpFolder         string  `json:"dump_folder" yaml:"dump_folder"`                   // 识别结果文件所在文件夹
	OutputFolder       string  `json:"output_folder" yaml:"output_folder"`               // 输出结果文件夹
	MaxWorkers         int     `json:"max_workers" yaml:"max_workers"`                   // 并发处理的语音数
	MaxRetries         int     `json:"max_retries" yaml:"max_retries"`                   // 读取识别结果的最大重试次数
	RetryDelay         float64 `json:"retry_delay" yaml:"retry_delay"`                   // 重试延迟（秒）
	SilenceThreshold   int64   `json:"silence_threshold" yaml:"silence_threshold"`       // 静音检测最小时长（毫秒）
	MergeThreshold     int64   `json:"merge_threshold" yaml:"merge_threshold"`           // 分段合并阈值（毫秒）
	MergeUntilStable   bool    `json:"merge_until_stable" yaml:"merge_until_stable"`     // 重复合并直到分段数不变
	Recognizer         string  `json:"recognizer" yaml:"recognizer"`                     // 识别器 (dump, vosk)
	Frontend           string  `json:"frontend" yaml:"frontend"`                         // 前端 (dump, wav)
	ModelPath          string  `json:"model_path" yaml:"model_path"`                     // Vosk模型目录
	VADEnergyThreshold float64 `json:"vad_energy_threshold" yaml:"vad_energy_threshold"` // WAV前端的能量阈值（dBFS）
	ExportJSON         bool    `json:"export_json" yaml:"export_json"`                   // 导出分段JSON
	ExportSRT          bool    `json:"export_srt" yaml:"export_srt"`                     // 导出SRT字幕
	ExportText         bool    `json:"export_text" yaml:"export_text"`                   // 导出文本对齐报告
	ExportFeatures     bool    `json:"export_features" yaml:"export_features"`           // 导出二进制特征文件
	WatchMode          bool    `json:"watch_mode" yaml:"watch_mode"`                     // 监听文件夹中的新批处理文件
	ShowProgress       bool    `json:"show_progress" yaml:"show_progress"`               // 显示进度条
	LogLevel           string  `json:"log_level" yaml:"log_level"`                       // 日志级别
	LogFile            string  `json:"log_file" yaml:"log_file"`                         // 日志文件
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		BatchFile:          "",
		DumpFolder:         "./dumps",
		OutputFolder:       "./output",
		MaxWorkers:         4,
		MaxRetries:         3,
		RetryDelay:         1.0,
		SilenceThreshold:   150,
		MergeThreshold:     5000,
		MergeUntilStable:   false,
		Recognizer:         SourceDump,
		Frontend:           SourceDump,
		ModelPath:          "",
		VADEnergyThreshold: -45,
		ExportJSON:         true,
		ExportSRT:          false,
		ExportText:         true,
		ExportFeatures:     false,
		WatchMode:          false,
		ShowProgress:       true,
		LogLevel:           "INFO",
		LogFile:            "",
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	// 验证数值范围
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return &ConfigValidationError{"MaxRetries", "必须在1-10之间"}
	}

	if c.MaxWorkers < 1 || c.MaxWorkers > 64 {
		return &ConfigValidationError{"MaxWorkers", "必须在1-64之间"}
	}

	if c.RetryDelay < 0 || c.RetryDelay > 10.0 {
		return &ConfigValidationError{"RetryDelay", "必须在0-10.0秒之间"}
	}

	if c.SilenceThreshold < 10 {
		return &ConfigValidationError{"SilenceThreshold", "不能小于一帧(10毫秒)"}
	}

	if c.MergeThreshold < 0 {
		return &ConfigValidationError{"MergeThreshold", "不能为负数"}
	}

	switch c.Recognizer {
	case SourceDump, SourceVosk:
	default:
		return &ConfigValidationError{"Recognizer", "必须是 dump 或 vosk"}
	}

	switch c.Frontend {
	case SourceDump, SourceWAV:
	default:
		return &ConfigValidationError{"Frontend", "必须是 dump 或 wav"}
	}

	if c.Recognizer == SourceVosk && c.ModelPath == "" {
		return &ConfigValidationError{"ModelPath", "使用vosk时必须指定模型目录"}
	}

	if c.VADEnergyThreshold > 0 {
		return &ConfigValidationError{"VADEnergyThreshold", "dBFS阈值不能大于0"}
	}

	return nil
}

// isYAML 根据扩展名判断配置文件格式
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFromFile 从文件加载配置，支持JSON和YAML
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("读取配置文件失败: %v", err)
		return err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		logrus.Errorf("解析配置文件失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// SaveToFile 保存配置到文件，扩展名为 .yaml/.yml 时保存为YAML
func (c *Config) SaveToFile(path string) error {
	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logrus.Errorf("创建目录失败: %v", err)
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logrus.Errorf("写入配置文件失败: %v", err)
		return err
	}

	return nil
}

// Update 批量更新配置
func (c *Config) Update(updates map[string]interface{}) error {
	// 保存当前配置用于回滚
	tempConfig := *c

	// 将更新序列化为JSON再反序列化到结构体中
	updateBytes, err := json.Marshal(updates)
	if err != nil {
		logrus.Errorf("序列化更新数据失败: %v", err)
		return err
	}

	if err := json.Unmarshal(updateBytes, c); err != nil {
		*c = tempConfig
		logrus.Errorf("应用配置更新失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		*c = tempConfig
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// Reset 重置为默认配置
func (c *Config) Reset() {
	*c = *NewDefaultConfig()
}

// PrintConfig 打印当前配置
func (c *Config) PrintConfig() {
	logrus.Info("当前配置:")
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return
	}
	logrus.Info(string(bytes))
}
