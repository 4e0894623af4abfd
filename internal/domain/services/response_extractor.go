package services

import (
	"log/slog"
	"strings"

	"nanobanana-tryon/internal/domain/entities"
	"nanobanana-tryon/internal/domain/valueobjects"
)

// ExtractResult scans the first candidate of resp and returns the first inline
// image that decodes. Parts that fail to decode are skipped. When no image is
// found the returned message carries the model's text, or the generic failure
// message when there is none.
func ExtractResult(resp *entities.GenerationResponse) (*valueobjects.ResultImage, string) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, noImageMessage(resp, "")
	}

	var fallback []string
	for i, part := range resp.Candidates[0].Parts {
		switch p := part.(type) {
		case entities.InlineImagePart:
			img, err := valueobjects.DecodeResultImage(p.Data)
			if err != nil {
				// 壊れたパートは読み飛ばす
				slog.Debug("skip undecodable image part", "index", i, "mimeType", p.MIMEType, "size", len(p.Data), "error", err)
				continue
			}
			return img, entities.StatusSuccess
		case entities.TextPart:
			if p.Text != "" {
				fallback = append(fallback, p.Text)
			}
		}
	}

	return nil, noImageMessage(resp, strings.Join(fallback, ""))
}

func noImageMessage(resp *entities.GenerationResponse, fallback string) string {
	text := fallback
	if resp != nil && resp.Text != "" {
		text = resp.Text
	}
	if text == "" {
		return entities.StatusGenerationFailed
	}
	return entities.APIResponseStatus(text)
}
