// Package vosk 基于本地Vosk模型的识别器。
//
// 需要libvosk，只有使用 -tags vosk 构建时才会注册；
// 使用方应在同样带 vosk 标签的文件中空白导入本包。
package vosk
