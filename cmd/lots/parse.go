package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"guitarlots/internal/config"
	"guitarlots/internal/llm"
	"guitarlots/internal/lotparser"
	"guitarlots/internal/model"
)

var parseOpts struct {
	description string
	estimate    string
	classify    bool
}

// go run ./cmd/lots parse -d "1974 Gibson Les Paul; body: spruce; weight: 4.2kg * shipped with case" -e "£3500-5000"
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a single lot description and print it as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var classifier lotparser.Classifier
		if parseOpts.classify {
			if err := cfg.Validate(config.NeedOpenAI); err != nil {
				return err
			}
			classifier = &llm.TitleClassifier{LLM: llm.New(cfg.OpenAIKey, cfg.OpenAIModel, logger)}
		}

		parsed := lotparser.New(classifier, logger).Parse(cmd.Context(), model.LotRaw{
			Description: parseOpts.description,
			Estimate:    parseOpts.estimate,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	},
}

func init() {
	f := parseCmd.Flags()
	f.StringVarP(&parseOpts.description, "description", "d", "", "Lot description text")
	f.StringVarP(&parseOpts.estimate, "estimate", "e", "", "House estimate text, e.g. \"Estimate: £3500-5000\"")
	f.BoolVar(&parseOpts.classify, "classify", false, "Classify the title with the LLM")
	_ = parseCmd.MarkFlagRequired("description")
}
