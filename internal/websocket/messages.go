package websocket

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Status values pushed to the client while the upstream connection is being
// established.
const (
	StatusConnectingUpstream = "connecting_upstream"
	StatusUpstreamConnected  = "upstream_connected"
)

// Error codes pushed to the client. Except for the missing-credential case,
// these are non-terminal: the relay keeps running and retries the upstream.
const (
	ErrorCodeMissingCredential = "missing_upstream_credential"
	ErrorCodeConnect           = "upstream_connect_error"
	ErrorCodeReceive           = "upstream_recv_error"
	ErrorCodeSend              = "upstream_send_error"
)

// StatusEvent notifies the client about upstream connection progress.
type StatusEvent struct {
	Status string `json:"status"`
}

// ErrorEvent notifies the client about a relay error.
type ErrorEvent struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// legacyAudioFrame is the old text-frame format: JSON carrying base64 audio.
// Binary frames are the preferred transport.
type legacyAudioFrame struct {
	Audio string `json:"audio"`
}

// DecodeLegacyAudioFrame extracts PCM bytes from a legacy text frame.
func DecodeLegacyAudioFrame(data []byte) ([]byte, error) {
	var frame legacyAudioFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, err
	}
	if frame.Audio == "" {
		return nil, errors.New("legacy frame has no audio payload")
	}
	pcm, err := base64.StdEncoding.DecodeString(frame.Audio)
	if err != nil {
		return nil, err
	}
	return pcm, nil
}
