package gazetteer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vigia-io/vigia/internal/model"
)

// catalogFile is the on-disk shape of the territory catalog: regions with
// their comunas (and optional localities) nested, the way the external
// catalog maintainer ships it.
type catalogFile struct {
	Territories []catalogRegion `yaml:"territories"`
}

type catalogRegion struct {
	Name     string         `yaml:"name"`
	Aliases  []string       `yaml:"aliases"`
	Lat      *float64       `yaml:"lat"`
	Lon      *float64       `yaml:"lon"`
	Disabled bool           `yaml:"disabled"`
	Comunas  []catalogChild `yaml:"comunas"`
}

type catalogChild struct {
	Name       string         `yaml:"name"`
	Aliases    []string       `yaml:"aliases"`
	Lat        *float64       `yaml:"lat"`
	Lon        *float64       `yaml:"lon"`
	Disabled   bool           `yaml:"disabled"`
	Localities []catalogChild `yaml:"localities"`
}

// LoadCatalog reads a YAML catalog file and flattens it into Territory
// records with ids and parent references assigned. The core only ever reads
// the result; it never writes the catalog back.
func LoadCatalog(path string) ([]model.Territory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Territories) == 0 {
		return nil, fmt.Errorf("catalog %s: no territories", path)
	}

	var out []model.Territory
	nextID := int64(1)

	for _, r := range file.Territories {
		region := model.Territory{
			ID:        nextID,
			Name:      r.Name,
			Level:     model.LevelRegion,
			Latitude:  r.Lat,
			Longitude: r.Lon,
			Aliases:   r.Aliases,
			Enabled:   !r.Disabled,
		}
		nextID++
		out = append(out, region)

		for _, c := range r.Comunas {
			parent := region.ID
			comuna := model.Territory{
				ID:        nextID,
				Name:      c.Name,
				Level:     model.LevelComuna,
				ParentID:  &parent,
				Latitude:  c.Lat,
				Longitude: c.Lon,
				Aliases:   c.Aliases,
				Enabled:   !c.Disabled,
			}
			nextID++
			out = append(out, comuna)

			for _, l := range c.Localities {
				cp := comuna.ID
				out = append(out, model.Territory{
					ID:        nextID,
					Name:      l.Name,
					Level:     model.LevelLocality,
					ParentID:  &cp,
					Latitude:  l.Lat,
					Longitude: l.Lon,
					Aliases:   l.Aliases,
					Enabled:   !l.Disabled,
				})
				nextID++
			}
		}
	}

	return out, nil
}
