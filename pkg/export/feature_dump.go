package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// DefaultFeatureDim 读取特征文件时的默认维数
const DefaultFeatureDim = 36

// FeatureRecord 特征文件中的一条记录
type FeatureRecord struct {
	MixtureID int32
	Features  []float32
}

func (r FeatureRecord) String() string {
	parts := make([]string, 0, len(r.Features)+1)
	parts = append(parts, strconv.Itoa(int(r.MixtureID)))
	for _, f := range r.Features {
		parts = append(parts, strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	return strings.Join(parts, " ")
}

// WriteFeatures 把带混合分量ID和特征的帧写为大端二进制记录：
// int32 混合分量ID，随后是N个float32特征。返回写出的记录数
func WriteFeatures(w io.Writer, frames []alignment.FrameAlignment) (int, error) {
	bw := bufio.NewWriter(w)
	count := 0
	buf := make([]byte, 4)

	for _, f := range frames {
		if f.MixtureID == nil || len(f.Features) == 0 {
			continue
		}
		binary.BigEndian.PutUint32(buf, uint32(int32(*f.MixtureID)))
		if _, err := bw.Write(buf); err != nil {
			return count, err
		}
		for _, v := range f.Features {
			binary.BigEndian.PutUint32(buf, math.Float32bits(v))
			if _, err := bw.Write(buf); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, bw.Flush()
}

// ReadFeatures 逐条读取特征记录，dim为每条记录的特征维数
func ReadFeatures(r io.Reader, dim int, fn func(FeatureRecord) error) error {
	if dim <= 0 {
		return fmt.Errorf("特征维数必须大于0: %d", dim)
	}
	br := bufio.NewReader(r)

	for {
		var id int32
		if err := binary.Read(br, binary.BigEndian, &id); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("读取混合分量ID失败: %w", err)
		}

		features := make([]float32, dim)
		if err := binary.Read(br, binary.BigEndian, features); err != nil {
			return fmt.Errorf("读取特征失败 (mixture %d): %w", id, err)
		}
		if err := fn(FeatureRecord{MixtureID: id, Features: features}); err != nil {
			return err
		}
	}
}

// FeatureExporter 导出二进制特征文件
type FeatureExporter struct {
	OutputFolder string
}

// NewFeatureExporter 创建特征导出器
func NewFeatureExporter(outputFolder string) *FeatureExporter {
	return &FeatureExporter{OutputFolder: outputFolder}
}

// ExportFeatures 导出特征文件，没有可导出的帧时不创建文件
func (e *FeatureExporter) ExportFeatures(id string, ta *alignment.TranscriptAlignment) (string, int, error) {
	frames := ta.Frames.Frames()
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s.feat", id))

	file, err := os.Create(outputFile)
	if err != nil {
		return "", 0, fmt.Errorf("创建特征文件失败: %w", err)
	}
	count, err := WriteFeatures(file, frames)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", count, fmt.Errorf("写入特征文件失败: %w", err)
	}
	if count == 0 {
		os.Remove(outputFile)
		utils.WithUtterance(id).Debug("没有带混合分量ID的特征帧，跳过特征导出")
		return "", 0, nil
	}

	utils.Debug("已导出特征文件: %s (%d 条)", outputFile, count)
	return outputFile, count, nil
}
