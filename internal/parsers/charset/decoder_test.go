package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{
			name: "utf8 with bom",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Tên khách,Số đêm")...),
			want: EncodingUTF8,
		},
		{
			name: "plain utf8 vietnamese",
			data: []byte("Nguyễn Văn A,15/10/2025"),
			want: EncodingUTF8,
		},
		{
			name: "plain ascii",
			data: []byte("guest,start,amount"),
			want: EncodingUTF8,
		},
		{
			name: "invalid utf8 falls back to windows-1258",
			data: []byte{0x4E, 0x67, 0xF5, 0x79, 0xEA, 0x6E}, // "Nguyên"-ish legacy bytes
			want: EncodingWindows1258,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEncoding(tt.data))
		})
	}
}

func TestDecodeStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Tên khách")...)
	got, err := Decode(data, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "Tên khách", got)
}

func TestDecodeValidUTF8NotDoubleDecoded(t *testing.T) {
	// Caller claims windows-1258 but the bytes are already UTF-8
	got, err := Decode([]byte("Nguyễn Văn A"), EncodingWindows1258)
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", got)
}

func TestDecodeAuto(t *testing.T) {
	got, err := DecodeAuto([]byte("Khách VIP"))
	require.NoError(t, err)
	assert.Equal(t, "Khách VIP", got)
}
