package websocket

import (
	"encoding/base64"
	"testing"
)

func TestDecodeLegacyAudioFrame(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0x20, 0x00}

	tests := []struct {
		name    string
		frame   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "valid frame",
			frame: `{"audio":"` + base64.StdEncoding.EncodeToString(pcm) + `"}`,
			want:  pcm,
		},
		{
			name:    "not json",
			frame:   `just some text`,
			wantErr: true,
		},
		{
			name:    "missing audio field",
			frame:   `{"other":"value"}`,
			wantErr: true,
		},
		{
			name:    "empty audio",
			frame:   `{"audio":""}`,
			wantErr: true,
		},
		{
			name:    "invalid base64",
			frame:   `{"audio":"!!not-base64!!"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLegacyAudioFrame([]byte(tt.frame))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeLegacyAudioFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if string(got) != string(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
