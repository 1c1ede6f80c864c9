// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/pdiddy/vocal-architect/internal/audio"
	"github.com/pdiddy/vocal-architect/internal/httputil"
)

// Default OpenAI models.
const (
	DefaultOpenAIModel     = "gpt-4.1-mini"
	DefaultAudioModel      = "gpt-4o-audio-preview"
	DefaultTranscribeModel = "whisper-1"
)

// OpenAIConfig configures an OpenAIBackend.
type OpenAIConfig struct {
	APIKey          string
	Model           string
	AudioModel      string
	TranscribeModel string

	// BaseURL overrides the API endpoint. Empty uses the default.
	BaseURL    string
	HTTPClient *http.Client

	// RateLimit re-sends 429 responses. Other failures are not retried.
	RateLimit httputil.RateLimit
}

// OpenAIBackend uses the Responses API with strict JSON schemas for text,
// Chat Completions audio input for score transcription and the
// transcription endpoint for speech.
type OpenAIBackend struct {
	client          openai.Client
	model           string
	audioModel      string
	transcribeModel string
}

// NewOpenAIBackend returns a backend for cfg.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// SDK retries cover 408, 409 and 5xx as well; only 429 is re-sent.
		option.WithMaxRetries(0),
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			return cfg.RateLimit.Send(req, next)
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	b := &OpenAIBackend{
		client:          openai.NewClient(opts...),
		model:           cfg.Model,
		audioModel:      cfg.AudioModel,
		transcribeModel: cfg.TranscribeModel,
	}
	if b.model == "" {
		b.model = DefaultOpenAIModel
	}
	if b.audioModel == "" {
		b.audioModel = DefaultAudioModel
	}
	if b.transcribeModel == "" {
		b.transcribeModel = DefaultTranscribeModel
	}
	return b
}

// Complete sends call through the Responses API.
func (b *OpenAIBackend) Complete(ctx context.Context, call Call) (string, error) {
	params := responses.ResponseNewParams{
		Model:        b.model,
		Instructions: openai.String(call.Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(call.Input, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if call.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(call.MaxTokens))
	}
	if call.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   call.Name,
					Schema: call.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := b.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI responses: %w", err)
	}
	if string(resp.Status) == "incomplete" {
		return "", fmt.Errorf("OpenAI response incomplete: %s", resp.IncompleteDetails.Reason)
	}
	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("OpenAI responses: %w", ErrEmptyResponse)
	}
	return text, nil
}

// CompleteAudio sends call with clip attached as input audio. Only WAV and
// MP3 clips are accepted.
func (b *OpenAIBackend) CompleteAudio(ctx context.Context, call Call, clip audio.Clip) (string, error) {
	part, err := inputAudio(clip)
	if err != nil {
		return "", err
	}

	system := call.Instructions
	if call.Schema != nil {
		schema, err := json.Marshal(call.Schema)
		if err != nil {
			return "", fmt.Errorf("marshaling schema: %w", err)
		}
		system += "\n\nThe JSON object must match this schema:\n" + string(schema)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.audioModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(call.Input),
				part,
			}),
		},
	}
	if call.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(call.MaxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI chat audio: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAI chat audio: %w", ErrEmptyResponse)
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("OpenAI chat audio: reply truncated at %d tokens", call.MaxTokens)
	}
	return resp.Choices[0].Message.Content, nil
}

func inputAudio(clip audio.Clip) (openai.ChatCompletionContentPartUnionParam, error) {
	data := base64.StdEncoding.EncodeToString(clip.Data)
	switch clip.Format() {
	case "wav":
		return openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{Data: data, Format: "wav"}), nil
	case "mp3":
		return openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{Data: data, Format: "mp3"}), nil
	}
	return openai.ChatCompletionContentPartUnionParam{}, fmt.Errorf("%w: %s", ErrAudioUnsupported, clip.MimeType)
}

// Transcribe returns the speech-to-text transcript of clip.
func (b *OpenAIBackend) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	tr, err := b.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(clip.Data), clip.Name, clip.MimeType),
		Model: openai.AudioModel(b.transcribeModel),
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI transcription: %w", err)
	}
	return tr.Text, nil
}
