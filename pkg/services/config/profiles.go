package config

import (
	"context"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/services/normalize"
	"gopkg.in/ini.v1"
)

// ProfileRegistry serves column-mapping profiles, one ini section per
// spreadsheet variant:
//
//	[legacy-bulan]
//	date = bulan_transaksi
//	product = produk
//	price = total_harga, harga
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetColumns(ctx context.Context, profile string) (normalize.ColumnMapping, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load column profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetColumns(_ context.Context, profile string) (normalize.ColumnMapping, error) {
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	mapping := make(normalize.ColumnMapping)
	for _, key := range section.Keys() {
		f, ok := normalize.ParseField(key.Name())
		if !ok {
			return nil, fmt.Errorf("profile %s: unknown column field %q", profile, key.Name())
		}
		mapping[f] = key.Strings(",")
	}
	return mapping, nil
}
