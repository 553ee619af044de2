package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	DefaultModel     = "claude-haiku-4-5-20251001"
	DefaultMaxTokens = 512
	maxOCRLines      = 20
	maxColors        = 5
)

// messageCreator is the slice of the SDK's MessageService the client uses
type messageCreator interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicClient answers vision requests with a multimodal model, passing the image by URL
type AnthropicClient struct {
	messages  messageCreator
	model     string
	maxTokens int64
	hasKey    bool
}

// NewAnthropicClient creates a client for the given API key. Empty model and maxTokens use defaults.
func NewAnthropicClient(apiKey, model string, maxTokens int64) *AnthropicClient {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return newAnthropicClient(&client.Messages, apiKey != "", model, maxTokens)
}

func newAnthropicClient(messages messageCreator, hasKey bool, model string, maxTokens int64) *AnthropicClient {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AnthropicClient{messages: messages, model: model, maxTokens: maxTokens, hasKey: hasKey}
}

// Ping fails when no API key is configured; the API has no free health endpoint
func (c *AnthropicClient) Ping(_ context.Context) error {
	if !c.hasKey {
		return fmt.Errorf("%w: no Anthropic API key", utils.ErrVisionUnavailable)
	}
	return nil
}

type visionAnswer struct {
	Caption    string   `json:"caption"`
	Text       []string `json:"text"`
	Colors     []string `json:"colors"`
	Confidence float64  `json:"confidence"`
}

// Analyze asks the model for the requested facts about one image
func (c *AnthropicClient) Analyze(ctx context.Context, imageURL string, opts Options) (models.VisionResult, error) {
	msg, err := c.messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlock(sdk.URLImageSourceParam{URL: imageURL}),
				sdk.NewTextBlock(buildPrompt(opts)),
			),
		},
	})
	if err != nil {
		return models.VisionResult{}, fmt.Errorf("%w: anthropic message: %w", utils.ErrVisionFailed, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	answer, err := parseAnswer(text.String())
	if err != nil {
		return models.VisionResult{}, err
	}
	return toResult(imageURL, answer, opts), nil
}

func buildPrompt(opts Options) string {
	var fields []string
	if opts.EnableCaptions {
		fields = append(fields, `"caption": one sentence describing what the image shows for a business website`)
	}
	if opts.EnableOCR {
		fields = append(fields, `"text": every line of legible text in the image, in reading order ([] if none)`)
	}
	if opts.EnableColors {
		fields = append(fields, `"colors": up to 5 dominant colors as #rrggbb hex strings, most prominent first`)
	}
	fields = append(fields, `"confidence": a number between 0 and 1 for how sure you are`)

	var b strings.Builder
	b.WriteString("Analyze this image from a small business website. Reply with only a JSON object with these keys:\n")
	for _, f := range fields {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	return b.String()
}

// parseAnswer extracts the JSON object from the model's reply, tolerating code fences and prose
func parseAnswer(reply string) (visionAnswer, error) {
	var answer visionAnswer
	start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return answer, fmt.Errorf("%w: %w: no JSON object in vision reply", utils.ErrVisionFailed, utils.ErrParsing)
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &answer); err != nil {
		return answer, fmt.Errorf("%w: %w: JSON vision reply: %w", utils.ErrVisionFailed, utils.ErrParsing, err)
	}
	return answer, nil
}

func toResult(imageURL string, a visionAnswer, opts Options) models.VisionResult {
	res := models.VisionResult{ImageURL: imageURL, Confidence: utils.Clamp01(a.Confidence)}
	if opts.EnableCaptions {
		res.Caption = utils.CleanText(a.Caption)
	}
	if opts.EnableOCR {
		for _, line := range a.Text {
			if line = utils.CleanText(line); line != "" {
				res.Text = append(res.Text, line)
			}
		}
		res.Text = res.Text[:min(len(res.Text), maxOCRLines)]
	}
	if opts.EnableColors {
		for _, c := range a.Colors {
			if c = strings.ToLower(strings.TrimSpace(c)); strings.HasPrefix(c, "#") {
				res.Colors = append(res.Colors, c)
			}
		}
		res.Colors = res.Colors[:min(len(res.Colors), maxColors)]
	}
	return res
}
