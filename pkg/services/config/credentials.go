package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

const credentialsFile = ".seoatlascfg"

// Registry reads completion provider credentials from an ini file, one section per profile:
//
//	[writer]
//	provider = anthropic
//	api_key  = sk-ant-...
//	model    = claude-3-haiku-20240307
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.ProviderProfile, error)
	GetProfile(ctx context.Context, name string) (domain.ProviderProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultCredentialsPath is $HOME/.seoatlascfg.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return credentialsFile
	}
	return filepath.Join(home, credentialsFile)
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load credentials %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]domain.ProviderProfile, error) {
	var profiles []domain.ProviderProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, profileFromSection(section))
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.ProviderProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.ProviderProfile{}, fmt.Errorf("%w: profile %s", domain.ErrNotFound, name)
	}
	return profileFromSection(section), nil
}

func profileFromSection(section *ini.Section) domain.ProviderProfile {
	return domain.ProviderProfile{
		Name:     section.Name(),
		Provider: section.Key("provider").String(),
		APIKey:   section.Key("api_key").String(),
		Model:    section.Key("model").String(),
		BaseURL:  section.Key("base_url").String(),
	}
}
