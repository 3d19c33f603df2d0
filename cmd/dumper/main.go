package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/dumpfile"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/wavfront"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/export"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/processor"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textalign"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textnorm"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

var (
	configFile = flag.String("config", "", "配置文件路径")
	batchFile  = flag.String("batch", "", "批处理文件；未指定时扫描识别结果文件夹")
	dumpDir    = flag.String("dumps", "", "识别结果文件夹")
	only       = flag.String("id", "", "只输出指定语音")
	frames     = flag.Bool("frames", false, "输出逐帧信息")
	logLevel   = flag.String("log-level", "WARN", "日志级别")
)

func main() {
	flag.Parse()
	utils.InitLogger(*logLevel, "")

	config := models.NewDefaultConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			color.Red("加载配置失败: %v", err)
			os.Exit(2)
		}
	}
	if *dumpDir != "" {
		config.DumpFolder = *dumpDir
	}
	if *batchFile != "" {
		config.BatchFile = *batchFile
	}
	// 只打印，不导出
	config.ExportJSON, config.ExportSRT, config.ExportText, config.ExportFeatures = false, false, false, false

	utterances, err := loadUtterances(config)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	eng, err := engine.Default.Create(config, textnorm.NewTokenizer(), textalign.New())
	if err != nil {
		color.Red("创建引擎失败: %v", err)
		os.Exit(1)
	}
	defer eng.Close()

	proc := processor.NewUtteranceProcessor(eng, config, "")
	failed := 0
	for _, utt := range utterances {
		if *only != "" && utt.ID != *only {
			continue
		}
		if err := dump(proc, eng, utt); err != nil {
			color.Red("%s: %v", utt.ID, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func loadUtterances(config *models.Config) ([]models.Utterance, error) {
	if config.BatchFile != "" {
		return batch.LoadBatchFile(config.BatchFile)
	}
	files, err := scanner.NewUtteranceScanner().ScanDirectory(config.DumpFolder)
	if err != nil {
		return nil, err
	}
	return scanner.Utterances(files), nil
}

func dump(proc *processor.UtteranceProcessor, eng *engine.Engine, utt models.Utterance) error {
	outcome, err := proc.Run(context.Background(), utt)
	if err != nil {
		return err
	}

	color.Cyan("==== %s ====", utt.ID)
	ta := outcome.Analysis.Transcript
	sections := []export.Section{
		{Title: "alignment", Lines: eng.Report(outcome.Analysis)},
		{Title: "words", Lines: export.WordLines(ta)},
		{Title: "segments", Lines: export.SegmentLines(outcome.Segments.Segments)},
	}
	if *frames {
		sections = append([]export.Section{{Title: "frames", Lines: export.FrameLines(ta)}}, sections...)
	}
	if err := export.WriteSections(os.Stdout, sections...); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
