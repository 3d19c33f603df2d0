package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/dumpfile"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/wavfront"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/export"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textalign"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textnorm"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

var (
	read      = flag.String("read", "", "读取特征文件并逐条打印")
	dim       = flag.Int("dim", export.DefaultFeatureDim, "读取时每条记录的特征维数")
	dumpDir   = flag.String("dumps", "./dumps", "识别结果文件夹")
	frontend  = flag.String("frontend", models.SourceDump, "前端 (dump, wav)")
	audio     = flag.String("audio", "", "语音音频路径，使用wav前端时必须指定")
	outputDir = flag.String("output", "./output", "输出目录")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法: %s [选项] <语音ID>\n       %s -read <文件> [-dim N]\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	utils.InitLogger("WARN", "")

	if *read != "" {
		if err := readFeatures(*read, *dim); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := writeFeatures(flag.Arg(0)); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func readFeatures(path string, dim int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	return export.ReadFeatures(f, dim, func(rec export.FeatureRecord) error {
		_, err := fmt.Fprintln(w, rec.String())
		return err
	})
}

func writeFeatures(id string) error {
	config := models.NewDefaultConfig()
	config.DumpFolder = *dumpDir
	config.Frontend = *frontend
	config.OutputFolder = *outputDir
	if err := config.Validate(); err != nil {
		return err
	}

	eng, err := engine.Default.Create(config, textnorm.NewTokenizer(), textalign.New())
	if err != nil {
		return err
	}
	defer eng.Close()

	ta, err := eng.Align(context.Background(), models.Utterance{ID: id, AudioPath: *audio})
	if err != nil {
		return err
	}

	path, n, err := export.NewFeatureExporter(config.OutputFolder).ExportFeatures(id, ta)
	if err != nil {
		return err
	}
	if n == 0 {
		color.Yellow("%s 没有带混合分量ID的特征帧", id)
		return nil
	}
	color.Green("已写出 %d 条特征记录: %s", n, path)
	return nil
}
