package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		size      int64
		wantStart int64
		wantEnd   int64
		wantNil   bool
		wantErr   bool
	}{
		{name: "没有 Range 头返回完整内容", header: "", size: 1000, wantNil: true},
		{name: "标准区间", header: "bytes=100-199", size: 1000, wantStart: 100, wantEnd: 199},
		{name: "省略终点收敛到文件末尾", header: "bytes=500-", size: 1000, wantStart: 500, wantEnd: 999},
		{name: "终点越界收敛到文件末尾", header: "bytes=0-99999", size: 1000, wantStart: 0, wantEnd: 999},
		{name: "单字节区间", header: "bytes=0-0", size: 1000, wantStart: 0, wantEnd: 0},
		{name: "起点超出文件大小", header: "bytes=1000-", size: 1000, wantErr: true},
		{name: "起点在终点之后", header: "bytes=200-100", size: 1000, wantErr: true},
		{name: "不支持的单位", header: "lines=0-10", size: 1000, wantErr: true},
		{name: "不支持的多区间", header: "bytes=0-10,20-30", size: 1000, wantErr: true},
		{name: "缺少起点", header: "bytes=-500", size: 1000, wantErr: true},
		{name: "非数字", header: "bytes=abc-def", size: 1000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := ParseRangeHeader(tt.header, tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, rng)
				return
			}
			require.NotNil(t, rng)
			assert.Equal(t, tt.wantStart, rng.Start)
			assert.Equal(t, tt.wantEnd, rng.End)
		})
	}
}

func TestByteRange(t *testing.T) {
	rng := ByteRange{Start: 100, End: 199}
	assert.Equal(t, int64(100), rng.Length())
	assert.Equal(t, "bytes 100-199/1000", rng.ContentRange(1000))
}

func TestIsStreamable(t *testing.T) {
	assert.True(t, IsStreamable("audio/mpeg"))
	assert.True(t, IsStreamable("video/mp4"))
	assert.False(t, IsStreamable("image/png"))
	assert.False(t, IsStreamable("text/plain"))
	assert.False(t, IsStreamable("application/pdf"))
}
