// Package extract turns a scanned voter-list document into a validated
// RecordSet via the Anthropic vision API.
package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/config"
	"github.com/boothworks/voterscan/internal/ingest"
	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/pkg/anthropic"
)

const systemText = "You are a data extraction specialist for Indian electoral rolls. You read scanned voter-list pages, including Tamil-language rolls, and return only valid JSON with no surrounding prose."

const extractPrompt = `Extract all information from this scanned voter list page into JSON.

Return a single JSON object with exactly this structure:
{
  "constituencyInfo": {
    "assembly": {"number": <int>, "name": "<string>", "category": "<string>"},
    "parliamentary": {"number": <int>, "name": "<string>", "category": "<string>"}
  },
  "pollingStationInfo": {
    "partNumber": <int>,
    "name": "<string>",
    "address": "<string>",
    "mainTownOrVillage": "<string>",
    "policeStation": "<string>",
    "district": "<string>",
    "pinCode": "<string>"
  },
  "voterStats": {
    "startingSerialNumber": <int>,
    "endingSerialNumber": <int>,
    "maleVoters": <int>,
    "femaleVoters": <int>,
    "thirdGenderVoters": <int>,
    "totalVoters": <int>
  },
  "voters": [
    {
      "serialNumber": "<string>",
      "voterId": "<string, empty string if not printed>",
      "name": "<string>",
      "relationName": "<string>",
      "relationType": "<father|husband|mother|other>",
      "houseNumber": "<string>",
      "age": <int>,
      "gender": "<male|female|other>"
    }
  ]
}

Rules:
- Include every voter entry visible on the page, in printed order.
- Keep names in their original script; do not transliterate.
- Every field is required. Use "" for text you cannot read and 0 for numbers not printed.
- Return only the JSON object.`

// SchemaError marks a response that came back from the API but failed
// RecordSet validation. Transport and timeout failures are not schema
// errors.
type SchemaError struct {
	err error
}

func (e *SchemaError) Error() string { return e.err.Error() }
func (e *SchemaError) Unwrap() error { return e.err }

// IsSchema reports whether err is a validation failure of the model's
// response rather than a transport failure.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Pipeline runs document extraction against the configured model.
type Pipeline struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// New creates an extraction pipeline.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Pipeline {
	return &Pipeline{client: client, cfg: cfg}
}

// Run sends the document to the vision model and parses the structured
// result. The call is bounded by the configured timeout.
func (p *Pipeline) Run(ctx context.Context, doc *model.DocumentHandle) (*model.RecordSet, error) {
	mimeType, b64, err := ingest.ParseDataURL(doc.DataURL)
	if err != nil {
		return nil, err
	}

	if p.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	started := time.Now()
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.ExtractModel,
		MaxTokens: p.cfg.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: systemText}},
		Messages: []anthropic.Message{{
			Role:       "user",
			Content:    extractPrompt,
			Attachment: &anthropic.Attachment{MediaType: mimeType, Data: b64},
		}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: vision call")
	}
	resp.Usage.LogCost(p.cfg.ExtractModel, "extract")

	rs, err := model.ParseRecordSet(CleanJSON(resp.Text()))
	if err != nil {
		return nil, &SchemaError{err: err}
	}

	zap.L().Info("document extracted",
		zap.String("document", doc.Name),
		zap.Int("voters", len(rs.Voters)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return rs, nil
}

// CleanJSON extracts a JSON object from text that may be wrapped in
// markdown code fences or prose.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
