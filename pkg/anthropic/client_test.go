package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "hello "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "hello world", resp.Text())
}

func TestEstimateCost_KnownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 18.00, cost, 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 500, OutputTokens: 500}
	assert.Zero(t, usage.EstimateCost("some-future-model"))
}

func TestAttachmentBlock_PDF(t *testing.T) {
	block := attachmentBlock(&Attachment{MediaType: "application/pdf", Data: "JVBERi0="})
	assert.NotNil(t, block.OfDocument)
	assert.Nil(t, block.OfImage)
}

func TestAttachmentBlock_Image(t *testing.T) {
	block := attachmentBlock(&Attachment{MediaType: "image/png", Data: "iVBORw0="})
	assert.NotNil(t, block.OfImage)
	assert.Nil(t, block.OfDocument)
}

func TestToSDKMessages_AttachmentFirst(t *testing.T) {
	msgs := toSDKMessages([]Message{{
		Role:       "user",
		Content:    "extract this page",
		Attachment: &Attachment{MediaType: "image/jpeg", Data: "AAAA"},
	}})

	assert.Len(t, msgs, 1)
	assert.Len(t, msgs[0].Content, 2)
	assert.NotNil(t, msgs[0].Content[0].OfImage)
	assert.NotNil(t, msgs[0].Content[1].OfText)
}
