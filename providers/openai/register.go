package openai

import (
	"github.com/glazeworks/glaze/core"
	"github.com/glazeworks/glaze/providers"
)

func init() {
	providers.Register("openai", func(apiKey string) core.Provider {
		return New(apiKey)
	})
}
