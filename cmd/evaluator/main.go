package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/dumpfile"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/wavfront"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/evaluate"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textalign"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textnorm"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

var (
	configFile = flag.String("config", "", "配置文件路径")
	dumpDir    = flag.String("dumps", "", "识别结果文件夹")
	recognizer = flag.String("recognizer", "", "识别器 (dump, vosk)，默认取配置")
	modelPath  = flag.String("model", "", "Vosk模型目录")
	output     = flag.String("output", "", "评估结果JSON文件")
	logLevel   = flag.String("log-level", "WARN", "日志级别")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: %s [选项] <批处理文件>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	utils.InitLogger(*logLevel, "")

	config, err := loadConfig()
	if err != nil {
		color.Red("配置无效: %v", err)
		os.Exit(2)
	}

	utterances, err := batch.LoadBatchFile(flag.Arg(0))
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	tokenizer := textnorm.NewTokenizer()
	aligner := textalign.New()
	eng, err := engine.Default.Create(config, tokenizer, aligner)
	if err != nil {
		color.Red("创建引擎失败: %v", err)
		os.Exit(1)
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := evaluate.NewEvaluator(eng, tokenizer, aligner).Evaluate(ctx, utterances)
	if err := evaluate.WriteReport(os.Stdout, report); err != nil {
		color.Red("输出失败: %v", err)
		os.Exit(1)
	}
	if *output != "" {
		if err := evaluate.SaveReport(*output, report); err != nil {
			color.Red("保存评估结果失败: %v", err)
			os.Exit(1)
		}
		color.Green("评估结果已保存: %s", *output)
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func loadConfig() (*models.Config, error) {
	config := models.NewDefaultConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return nil, err
		}
	}
	if *dumpDir != "" {
		config.DumpFolder = *dumpDir
	}
	if *recognizer != "" {
		config.Recognizer = *recognizer
	}
	if *modelPath != "" {
		config.ModelPath = *modelPath
	}
	return config, config.Validate()
}
