package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteRange 已解析并针对文件大小收敛后的字节区间，闭区间 [Start, End]
type ByteRange struct {
	Start int64
	End   int64
}

// Length 区间包含的字节数
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange 生成 Content-Range 响应头的值
func (r ByteRange) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// IsStreamable 判断类型是否走分段传输（仅音视频）
func IsStreamable(mime string) bool {
	return strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/")
}

// ParseRangeHeader 解析 "bytes=start-end" 形式的 Range 请求头。
// 只支持单一区间；end 省略或越界时收敛到文件末尾。
// 返回 (nil, nil) 表示没有 Range 头，此时调用方应返回完整内容。
func ParseRangeHeader(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	rangeSpec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, fmt.Errorf("不支持的 Range 单位: %q", header)
	}
	if strings.Contains(rangeSpec, ",") {
		return nil, fmt.Errorf("不支持多区间 Range: %q", header)
	}

	startStr, endStr, ok := strings.Cut(rangeSpec, "-")
	if !ok || startStr == "" {
		return nil, fmt.Errorf("无法解析 Range: %q", header)
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, fmt.Errorf("无法解析 Range 起点: %q", header)
	}
	if start >= size {
		return nil, fmt.Errorf("Range 起点超出文件大小: %d >= %d", start, size)
	}

	end := size - 1
	if endStr != "" {
		parsed, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || parsed < start {
			return nil, fmt.Errorf("无法解析 Range 终点: %q", header)
		}
		if parsed < end {
			end = parsed
		}
	}

	return &ByteRange{Start: start, End: end}, nil
}
