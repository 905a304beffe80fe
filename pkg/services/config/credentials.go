// Package config resolves credentials and application settings before
// the pipeline is constructed. The pipeline itself never reads secrets.
package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Registry reads App Store Connect credential profiles from an ini
// file, one section per profile:
//
//	[default]
//	key_id    = ABC123DEFG
//	issuer_id = 57246542-96fe-1a63-e053-0824d011072a
//	vendor    = 85012345
//	key_path  = ~/.proceeds/AuthKey_ABC123DEFG.p8
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*domain.Profile, error)
}

type credRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load credentials file: %w", err)
	}
	return &credRegistry{cfg: cfg}, nil
}

func (cr *credRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *credRegistry) GetProfile(_ context.Context, name string) (*domain.Profile, error) {
	if !cr.cfg.HasSection(name) {
		return nil, fmt.Errorf("profile %s not found", name)
	}
	section := cr.cfg.Section(name)

	profile := &domain.Profile{
		Name:     name,
		KeyID:    section.Key("key_id").String(),
		IssuerID: section.Key("issuer_id").String(),
		Vendor:   section.Key("vendor").String(),
		KeyPath:  section.Key("key_path").String(),
	}

	// Missing credentials are fatal before any processing begins.
	if profile.KeyID == "" || profile.IssuerID == "" || profile.Vendor == "" || profile.KeyPath == "" {
		return nil, fmt.Errorf("profile %s is incomplete: key_id, issuer_id, vendor, and key_path are required", name)
	}
	return profile, nil
}
