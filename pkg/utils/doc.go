// Package utils 提供平台检测与存储目录相关的工具函数
package utils
