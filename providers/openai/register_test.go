package openai

import (
	"testing"

	"github.com/glazeworks/glaze/providers"
)

func TestRegisteredInFactoryRegistry(t *testing.T) {
	if !providers.IsRegistered("openai") {
		t.Fatal("openai provider not registered")
	}

	p, err := providers.Create("openai", "test-key")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID() != "openai" {
		t.Errorf("ID() = %q, want openai", p.ID())
	}
}
