package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"omniops-core/pkg/commerce"
)

func catalogNames(catalog []ToolDefinition) []string {
	names := make([]string, len(catalog))
	for i, def := range catalog {
		names[i] = def.Name
	}
	return names
}

func hasTool(catalog []ToolDefinition, name string) bool {
	for _, def := range catalog {
		if def.Name == name {
			return true
		}
	}
	return false
}

func TestBuildToolCatalogPerCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		caps      TenantCapabilities
		wantTools []string
	}{
		{
			name: "commerce and content",
			caps: TenantCapabilities{
				TenantID:         uuid.New(),
				CommercePlatform: commerce.PlatformWooCommerce,
				HasContentIndex:  true,
			},
			wantTools: []string{ToolSearchStore, ToolSearchContent, ToolGetProductDetails, ToolCheckStock},
		},
		{
			name: "commerce only",
			caps: TenantCapabilities{
				TenantID:         uuid.New(),
				CommercePlatform: commerce.PlatformShopify,
				HasContentIndex:  false,
			},
			wantTools: []string{ToolSearchStore, ToolGetProductDetails, ToolCheckStock},
		},
		{
			name: "content only",
			caps: TenantCapabilities{
				TenantID:         uuid.New(),
				CommercePlatform: commerce.PlatformNone,
				HasContentIndex:  true,
			},
			wantTools: []string{ToolSearchStore, ToolSearchContent},
		},
		{
			name: "bare tenant",
			caps: TenantCapabilities{
				TenantID: uuid.New(),
			},
			wantTools: []string{ToolSearchStore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := BuildToolCatalog(tt.caps, Backends{Commerce: commerce.NoopProvider{}})

			if len(catalog) != len(tt.wantTools) {
				t.Fatalf("catalog = %v, want %v", catalogNames(catalog), tt.wantTools)
			}
			for _, want := range tt.wantTools {
				if !hasTool(catalog, want) {
					t.Errorf("catalog missing %q, got %v", want, catalogNames(catalog))
				}
			}
		})
	}
}

// Tool descriptions must never steer the model away from other tools; hybrid
// retrieval depends on the tools being complementary.
func TestToolDescriptionsHaveNoExclusivityDirectives(t *testing.T) {
	caps := TenantCapabilities{
		TenantID:         uuid.New(),
		CommercePlatform: commerce.PlatformWooCommerce,
		HasContentIndex:  true,
	}
	catalog := BuildToolCatalog(caps, Backends{Commerce: commerce.NoopProvider{}})

	forbidden := []string{
		"instead of",
		"rather than",
		"do not use",
		"don't use",
		"avoid using",
		"never use",
		"only use this",
	}

	for _, def := range catalog {
		lower := strings.ToLower(def.Description)
		for _, phrase := range forbidden {
			if strings.Contains(lower, phrase) {
				t.Errorf("tool %q description contains %q", def.Name, phrase)
			}
		}
	}
}

func TestSpecsMirrorCatalog(t *testing.T) {
	caps := TenantCapabilities{
		TenantID:         uuid.New(),
		CommercePlatform: commerce.PlatformWooCommerce,
		HasContentIndex:  true,
	}
	catalog := BuildToolCatalog(caps, Backends{Commerce: commerce.NoopProvider{}})
	specs := Specs(catalog)

	if len(specs) != len(catalog) {
		t.Fatalf("specs = %d, want %d", len(specs), len(catalog))
	}
	for i, spec := range specs {
		if spec.Name != catalog[i].Name {
			t.Errorf("specs[%d].Name = %q, want %q", i, spec.Name, catalog[i].Name)
		}
		if spec.Parameters == nil {
			t.Errorf("specs[%d].Parameters is nil", i)
		}
	}
}

func TestHandlersRejectMissingArguments(t *testing.T) {
	caps := TenantCapabilities{
		TenantID:         uuid.New(),
		CommercePlatform: commerce.PlatformWooCommerce,
		HasContentIndex:  true,
	}
	catalog := BuildToolCatalog(caps, Backends{Commerce: commerce.NoopProvider{}})

	for _, def := range catalog {
		t.Run(def.Name, func(t *testing.T) {
			if _, err := def.Handler(context.Background(), []byte(`{}`)); err == nil {
				t.Errorf("handler %q accepted empty arguments", def.Name)
			}
		})
	}
}

func TestCommerceConnected(t *testing.T) {
	tests := []struct {
		platform string
		want     bool
	}{
		{commerce.PlatformWooCommerce, true},
		{commerce.PlatformShopify, true},
		{commerce.PlatformNone, false},
		{"", false},
	}

	for _, tt := range tests {
		caps := TenantCapabilities{CommercePlatform: tt.platform}
		if got := caps.CommerceConnected(); got != tt.want {
			t.Errorf("CommerceConnected(%q) = %v, want %v", tt.platform, got, tt.want)
		}
	}
}
