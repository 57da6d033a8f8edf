package database

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"assetverse/models"
)

//go:embed packages.yaml
var defaultCatalog []byte

type catalogFile struct {
	Packages []models.Package `yaml:"packages"`
}

// LoadCatalog reads the package catalog from path, or the built-in catalog
// when path is empty.
func LoadCatalog(path string) ([]models.Package, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]models.Package, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, p := range f.Packages {
		if p.Name == "" || p.EmployeeLimit <= 0 || p.Price < 0 {
			return nil, fmt.Errorf("catalog entry %d is incomplete", i)
		}
	}
	return f.Packages, nil
}

type packageSeeder interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, pkgs []models.Package) error
}

// SeedPackages fills an empty packages collection; a populated one is left alone.
func SeedPackages(ctx context.Context, repo packageSeeder, pkgs []models.Package, logger *zap.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := repo.InsertMany(ctx, pkgs); err != nil {
		return err
	}
	logger.Info("seeded package catalog", zap.Int("packages", len(pkgs)))
	return nil
}
