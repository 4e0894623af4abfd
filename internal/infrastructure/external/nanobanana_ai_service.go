package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"nanobanana-tryon/internal/domain/entities"
	"nanobanana-tryon/internal/domain/repositories"
)

type NanobananaAIService struct {
	genAIClient *genai.Client
}

func NewNanobananaAIService(genAIClient *genai.Client) repositories.GenerationClient {
	return &NanobananaAIService{
		genAIClient: genAIClient,
	}
}

func (s *NanobananaAIService) GenerateContent(ctx context.Context, request *entities.GenerationRequest) (*entities.GenerationResponse, error) {
	slog.InfoContext(ctx, "GenerateContent",
		"model", request.Model(),
		"imageCount", request.ImageCount(),
		"payloadBytes", request.PayloadBytes())

	contents := []*genai.Content{
		genai.NewContentFromParts(toGenAIParts(request.Parts()), genai.RoleUser),
	}

	// 2025/08/28時点で、「gemini-2.5-flash-image-preview」は、複数候補を返せないようになっている。
	// CandidateCount や MediaResolution を指定すると INVALID_ARGUMENT になるので、設定は空で送る。
	resp, err := s.genAIClient.Models.GenerateContent(
		ctx,
		request.Model(),
		contents,
		&genai.GenerateContentConfig{},
	)
	if err != nil {
		return nil, classifyError(err)
	}

	result := fromGenAIResponse(resp)

	// レスポンスの詳細をログ出力（中身のバイト列は出さない）
	partsCount := 0
	if len(result.Candidates) > 0 {
		partsCount = len(result.Candidates[0].Parts)
	}
	slog.InfoContext(ctx, "Gemini API response",
		"candidatesCount", len(result.Candidates),
		"partsCount", partsCount,
		"textLength", len(result.Text))

	return result, nil
}

func toGenAIParts(parts []entities.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case entities.TextPart:
			out = append(out, genai.NewPartFromText(p.Text))
		case entities.InlineImagePart:
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: p.MIMEType,
					Data:     p.Data,
				},
			})
		}
	}
	return out
}

// fromGenAIResponse copies the first candidate's parts in order. Thought parts
// are dropped; they are the model's reasoning, not its answer.
func fromGenAIResponse(resp *genai.GenerateContentResponse) *entities.GenerationResponse {
	result := &entities.GenerationResponse{}
	if resp == nil {
		return result
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		result.BlockReason = string(resp.PromptFeedback.BlockReason)
	}

	var text strings.Builder
	for i, candidate := range resp.Candidates {
		c := entities.Candidate{}
		if candidate != nil && candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				switch {
				case part.InlineData != nil:
					c.Parts = append(c.Parts, entities.InlineImagePart{
						MIMEType: part.InlineData.MIMEType,
						Data:     part.InlineData.Data,
					})
				case part.Text != "":
					c.Parts = append(c.Parts, entities.TextPart{Text: part.Text})
					if i == 0 {
						text.WriteString(part.Text)
					}
				}
			}
		}
		result.Candidates = append(result.Candidates, c)
	}

	result.Text = text.String()
	return result
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", repositories.ErrQuotaExceeded, apiErr.Message)
		}
		return fmt.Errorf("failed to generate content: %w", apiErr)
	}
	return fmt.Errorf("failed to generate content: %w", err)
}
