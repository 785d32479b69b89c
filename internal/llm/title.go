package llm

import (
	"context"

	"guitarlots/internal/model"
)

// TitleClassifier asks the LLM for the brand, model and type of a lot title.
type TitleClassifier struct {
	LLM *Client
}

func (t *TitleClassifier) Classify(ctx context.Context, title string) (model.Classification, error) {
	var c model.Classification
	if err := t.LLM.CallJSON(ctx, "classify_title", titleSystem, titlePrompt(title), deterministic, &c); err != nil {
		return model.Classification{}, err
	}
	c.Type = model.NormalizeType(c.Type)
	return c, nil
}
