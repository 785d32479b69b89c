package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guitarlots/internal/model"
)

type stubAPI struct {
	reply string
	err   error
	empty bool
	reqs  []openai.ChatCompletionRequest
}

func (s *stubAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	if s.empty {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.reply}}},
		Usage:   openai.Usage{TotalTokens: 42},
	}, nil
}

func TestClient_CallJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes and sends both prompts", func(t *testing.T) {
		api := &stubAPI{reply: `{"brand":"Gibson"}`}
		c := NewWithAPI(api, "", nil)

		var out map[string]string
		require.NoError(t, c.CallJSON(ctx, "op", "sys", "user", 0.5, &out))
		assert.Equal(t, "Gibson", out["brand"])

		require.Len(t, api.reqs, 1)
		req := api.reqs[0]
		assert.Equal(t, openai.GPT4oMini, req.Model)
		assert.Equal(t, float32(0.5), req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "sys", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Content)
	})

	t.Run("code fence", func(t *testing.T) {
		c := NewWithAPI(&stubAPI{reply: "```json\n{\"brand\":\"Fender\"}\n```"}, "gpt-4o", nil)
		var out map[string]string
		require.NoError(t, c.CallJSON(ctx, "op", "s", "p", 0, &out))
		assert.Equal(t, "Fender", out["brand"])
	})

	t.Run("api error", func(t *testing.T) {
		c := NewWithAPI(&stubAPI{err: errors.New("429")}, "", nil)
		var out map[string]string
		err := c.CallJSON(ctx, "op", "s", "p", 0, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no choices", func(t *testing.T) {
		c := NewWithAPI(&stubAPI{empty: true}, "", nil)
		var out map[string]string
		assert.ErrorIs(t, c.CallJSON(ctx, "op", "s", "p", 0, &out), ErrEmptyResponse)
	})

	t.Run("invalid json", func(t *testing.T) {
		c := NewWithAPI(&stubAPI{reply: "Sure! Here is the JSON"}, "", nil)
		var out map[string]string
		assert.Error(t, c.CallJSON(ctx, "op", "s", "p", 0, &out))
	})
}

func TestTitleClassifier(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		reply string
		want  model.Classification
	}{
		{
			name:  "known type",
			reply: `{"brand":"Heritage","model":"H-575","type":"Hollow Body Electric"}`,
			want:  model.Classification{Brand: "Heritage", Model: "H-575", Type: "hollow body electric"},
		},
		{
			name:  "unknown type becomes other",
			reply: `{"brand":"Ibanez","model":"RG7","type":"seven string"}`,
			want:  model.Classification{Brand: "Ibanez", Model: "RG7", Type: "other"},
		},
		{
			name:  "partial answer",
			reply: `{"brand":"Vox"}`,
			want:  model.Classification{Brand: "Vox", Type: "other"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{reply: tt.reply}
			tc := &TitleClassifier{LLM: NewWithAPI(api, "", nil)}

			got, err := tc.Classify(ctx, "Heritage H-575 hollow body electric guitar")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, api.reqs[0].Messages[1].Content, `"Heritage H-575 hollow body electric guitar"`)
			assert.NotZero(t, api.reqs[0].Temperature)
		})
	}
}

func TestValuer(t *testing.T) {
	ctx := context.Background()

	t.Run("integers", func(t *testing.T) {
		api := &stubAPI{reply: `{"value_estimate_low": 3000, "value_estimate_high": 4500, "rationale": " Desirable year. "}`}
		v := &Valuer{LLM: NewWithAPI(api, "", nil)}

		got, err := v.Value(ctx, "1974 Gibson Les Paul")
		require.NoError(t, err)
		require.NotNil(t, got.ValueEstimateLow)
		require.NotNil(t, got.ValueEstimateHigh)
		assert.Equal(t, 3000, *got.ValueEstimateLow)
		assert.Equal(t, 4500, *got.ValueEstimateHigh)
		assert.Equal(t, "Desirable year.", got.Rationale)
		assert.Contains(t, api.reqs[0].Messages[1].Content, "1974 Gibson Les Paul")
		assert.Equal(t, float32(valuationTemperature), api.reqs[0].Temperature)
	})

	t.Run("floats and strings", func(t *testing.T) {
		api := &stubAPI{reply: `{"value_estimate_low": 1199.6, "value_estimate_high": "£1,500", "rationale": "ok"}`}
		v := &Valuer{LLM: NewWithAPI(api, "", nil)}

		got, err := v.Value(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, 1200, *got.ValueEstimateLow)
		assert.Equal(t, 1500, *got.ValueEstimateHigh)
	})

	t.Run("missing bound", func(t *testing.T) {
		api := &stubAPI{reply: `{"value_estimate_low": null, "rationale": "unsure"}`}
		v := &Valuer{LLM: NewWithAPI(api, "", nil)}

		got, err := v.Value(ctx, "x")
		require.NoError(t, err)
		assert.Nil(t, got.ValueEstimateLow)
		assert.Nil(t, got.ValueEstimateHigh)
	})

	t.Run("non-finite or huge bound", func(t *testing.T) {
		for _, reply := range []string{
			`{"value_estimate_low": "NaN", "value_estimate_high": 2}`,
			`{"value_estimate_low": 1, "value_estimate_high": "-Inf"}`,
			`{"value_estimate_low": 1e30, "value_estimate_high": 2}`,
		} {
			v := &Valuer{LLM: NewWithAPI(&stubAPI{reply: reply}, "", nil)}
			_, err := v.Value(ctx, "x")
			assert.Error(t, err, reply)
		}
	})

	t.Run("garbage bound", func(t *testing.T) {
		api := &stubAPI{reply: `{"value_estimate_low": "a lot", "value_estimate_high": 2}`}
		v := &Valuer{LLM: NewWithAPI(api, "", nil)}

		_, err := v.Value(ctx, "x")
		assert.Error(t, err)
	})
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences(" {\"a\":1} "))
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}```"))
}
