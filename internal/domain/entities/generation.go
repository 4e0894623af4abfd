package entities

import "nanobanana-tryon/internal/domain/valueobjects"

// TryOnInstruction is sent as the first part of every try-on request.
const TryOnInstruction = "Replace the clothes worn by the person in the first image with the outfit shown in the second image. " +
	"Make sure the fit looks natural, realistic, and consistent with the user's body pose, lighting, and perspective. " +
	"Do not alter the person's face, skin, or background."

// Part is one element of a multimodal message: either InlineImagePart or TextPart.
type Part interface {
	isPart()
}

type InlineImagePart struct {
	MIMEType string
	Data     []byte
}

type TextPart struct {
	Text string
}

func (InlineImagePart) isPart() {}
func (TextPart) isPart()        {}

type GenerationRequest struct {
	model string
	parts []Part
}

// NewGenerationRequest builds the ordered request: instruction, person, garment.
// Both images must already be PNG.
func NewGenerationRequest(model string, person, garment *valueobjects.ImageData) *GenerationRequest {
	return &GenerationRequest{
		model: model,
		parts: []Part{
			TextPart{Text: TryOnInstruction},
			InlineImagePart{MIMEType: string(valueobjects.MimeTypePNG), Data: person.Data()},
			InlineImagePart{MIMEType: string(valueobjects.MimeTypePNG), Data: garment.Data()},
		},
	}
}

func (r *GenerationRequest) Model() string {
	return r.model
}

func (r *GenerationRequest) Parts() []Part {
	return r.parts
}

// ImageCount returns the number of inline image parts.
func (r *GenerationRequest) ImageCount() int {
	n := 0
	for _, p := range r.parts {
		if _, ok := p.(InlineImagePart); ok {
			n++
		}
	}
	return n
}

// PayloadBytes is the total size of the inline image data.
func (r *GenerationRequest) PayloadBytes() int {
	n := 0
	for _, p := range r.parts {
		if img, ok := p.(InlineImagePart); ok {
			n += len(img.Data)
		}
	}
	return n
}

type Candidate struct {
	Parts []Part
}

// GenerationResponse mirrors the model reply. Text is the concatenated text
// of the first candidate, empty when there is none.
type GenerationResponse struct {
	Candidates  []Candidate
	Text        string
	BlockReason string
}
