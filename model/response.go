package model

import "encoding/base64"

// TryOnResponse is the JSON body returned by POST /tryon
type TryOnResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Outcome   string `json:"outcome"`
	RequestID string `json:"request_id,omitempty"`
	// 成功時のみ
	Image       *ImagePayload `json:"image,omitempty"`
	DownloadURL string        `json:"download_url,omitempty"`
}

// ImagePayload carries an encoded image inline
type ImagePayload struct {
	Data   string `json:"data"`
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func NewImagePayload(data []byte, mimeType string, width, height int) *ImagePayload {
	return &ImagePayload{
		Data:   base64.StdEncoding.EncodeToString(data),
		Type:   mimeType,
		Width:  width,
		Height: height,
	}
}

// Bytes decodes the inline data.
func (p *ImagePayload) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}

// DataURL is the form used by the result preview on the index page.
func (p *ImagePayload) DataURL() string {
	return "data:" + p.Type + ";base64," + p.Data
}
