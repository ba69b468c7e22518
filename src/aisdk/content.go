package aisdk

// ContentPartType identifies the kind of a content part in a multimodal message.
type ContentPartType string

const (
	ContentPartText     ContentPartType = "text"
	ContentPartImageURL ContentPartType = "image_url"
)

// ContentPart is one element of a multimodal user content array.
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *ImageURL       `json:"image_url,omitempty"`
}

// ImageURL carries the image payload, usually a data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartText, Text: text}
}

// NewImagePart creates an image content part from a URL or data URI.
func NewImagePart(url string) ContentPart {
	return ContentPart{Type: ContentPartImageURL, ImageURL: &ImageURL{URL: url}}
}
