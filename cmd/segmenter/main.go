package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/controller"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

var (
	configFile  = flag.String("config", "", "配置文件路径 (.json/.yaml)")
	batchFile   = flag.String("batch", "", "批处理文件，每行: 音频路径 参考文本")
	dumpDir     = flag.String("dumps", "./dumps", "识别结果文件夹")
	outputDir   = flag.String("output", "./output", "输出目录")
	workers     = flag.Int("workers", 4, "并发处理的语音数")
	silence     = flag.Int64("silence", 150, "静音检测最小时长（毫秒）")
	merge       = flag.Int64("merge", 5000, "分段合并阈值（毫秒）")
	untilStable = flag.Bool("until-stable", false, "重复合并直到分段数不变")
	recognizer  = flag.String("recognizer", models.SourceDump, "识别器 (dump, vosk)")
	frontend    = flag.String("frontend", models.SourceDump, "前端 (dump, wav)")
	modelPath   = flag.String("model", "", "Vosk模型目录")
	exportSRT   = flag.Bool("srt", false, "导出SRT字幕")
	exportFeat  = flag.Bool("features", false, "导出二进制特征文件")
	watch       = flag.Bool("watch", false, "监听识别结果文件夹")
	poll        = flag.Bool("poll", false, "监听模式下同时轮询文件夹")
	noProgress  = flag.Bool("no-progress", false, "不显示进度条")
	logLevel    = flag.String("log-level", "INFO", "日志级别 (VERBOSE, INFO, WARN, ERROR)")
	logFile     = flag.String("log-file", "", "日志文件路径")
	saveConfig  = flag.String("save-config", "", "把最终配置保存到文件后退出")
)

func main() {
	flag.Parse()

	printWelcome()

	config, err := loadConfig()
	if err != nil {
		color.Red("配置无效: %v", err)
		os.Exit(2)
	}

	if *saveConfig != "" {
		if err := config.SaveToFile(*saveConfig); err != nil {
			color.Red("保存配置失败: %v", err)
			os.Exit(1)
		}
		color.Green("配置已保存: %s", *saveConfig)
		return
	}

	pc, err := controller.NewProcessorController(config)
	if err != nil {
		color.Red("初始化失败: %v", err)
		os.Exit(1)
	}
	defer pc.Cleanup()
	pc.PollWatch = *poll

	if config.WatchMode {
		// 先处理已有的语音，再开始监听
		if _, err := pc.ProcessBatch(); err != nil {
			color.Yellow("处理已有语音失败: %v", err)
		}
		if err := pc.StartWatchMode(); err != nil {
			color.Red("监听模式失败: %v", err)
			os.Exit(1)
		}
		pc.PrintSummary()
		return
	}

	if _, err := pc.ProcessBatch(); err != nil {
		color.Red("处理失败: %v", err)
		os.Exit(1)
	}
	pc.PrintSummary()

	if pc.Stats.Failed > 0 {
		os.Exit(1)
	}
}

func printWelcome() {
	fmt.Println()
	color.Cyan("================================")
	color.Cyan("     语音对齐与分段工具         ")
	color.Cyan("================================")
	fmt.Println()
}

// loadConfig 先加载配置文件，再用显式指定的命令行参数覆盖
func loadConfig() (*models.Config, error) {
	config := models.NewDefaultConfig()

	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "batch":
			config.BatchFile = *batchFile
		case "dumps":
			config.DumpFolder = *dumpDir
		case "output":
			config.OutputFolder = *outputDir
		case "workers":
			config.MaxWorkers = *workers
		case "silence":
			config.SilenceThreshold = *silence
		case "merge":
			config.MergeThreshold = *merge
		case "until-stable":
			config.MergeUntilStable = *untilStable
		case "recognizer":
			config.Recognizer = *recognizer
		case "frontend":
			config.Frontend = *frontend
		case "model":
			config.ModelPath = *modelPath
		case "srt":
			config.ExportSRT = *exportSRT
		case "features":
			config.ExportFeatures = *exportFeat
		case "watch":
			config.WatchMode = *watch
		case "no-progress":
			config.ShowProgress = !*noProgress
		case "log-level":
			config.LogLevel = *logLevel
		case "log-file":
			config.LogFile = *logFile
		}
	})

	return config, config.Validate()
}
