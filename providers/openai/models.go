package openai

import "github.com/glazeworks/glaze/core"

// Model identifiers for commonly used models.
const (
	ModelGPT4o     core.ModelID = "gpt-4o"
	ModelGPT4oMini core.ModelID = "gpt-4o-mini"
	ModelGPTImage1 core.ModelID = "gpt-image-1"
)

var models = []core.ModelInfo{
	{
		ID:          ModelGPT4o,
		DisplayName: "GPT-4o",
		Capabilities: []core.Feature{
			core.FeatureChat,
			core.FeatureChatStreaming,
		},
	},
	{
		ID:          ModelGPT4oMini,
		DisplayName: "GPT-4o mini",
		Capabilities: []core.Feature{
			core.FeatureChat,
			core.FeatureChatStreaming,
		},
	},
	{
		ID:          ModelGPTImage1,
		DisplayName: "GPT Image 1",
		Capabilities: []core.Feature{
			core.FeatureImageEdit,
		},
	},
}
