package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/tagdeck/internal/catalog"
	"github.com/glabrego/tagdeck/internal/paging"
)

const (
	DefaultMenuName          = "EternalTags | %page%/%total%"
	DefaultFavoritesMenuName = "Favorite Tags | %page%/%total%"
)

// Menu holds the catalog view options. It is loaded once and validated at
// load time; every field has a default.
type Menu struct {
	Name                string `yaml:"menu-name"`
	FavoritesName       string `yaml:"favorites-menu-name"`
	SortType            string `yaml:"sort-type"`
	FavoritesFirst      bool   `yaml:"favorite-first"`
	AddAllTags          bool   `yaml:"add-all-tags"`
	DynamicGUI          bool   `yaml:"dynamic-gui"`
	DynamicSpeed        int    `yaml:"dynamic-speed"`
	PageCapacity        int    `yaml:"page-capacity"`
	EnableClear         bool   `yaml:"enable-clear"`
	EnableFavoritesView bool   `yaml:"enable-favorites-view"`

	// Sort is SortType resolved; unknown names resolve to alphabetical.
	Sort catalog.SortType `yaml:"-"`
}

func DefaultMenu() Menu {
	return Menu{
		Name:                DefaultMenuName,
		FavoritesName:       DefaultFavoritesMenuName,
		SortType:            string(catalog.SortAlphabetical),
		FavoritesFirst:      true,
		AddAllTags:          false,
		DynamicGUI:          false,
		DynamicSpeed:        3,
		PageCapacity:        paging.DefaultCapacity,
		EnableClear:         true,
		EnableFavoritesView: true,
		Sort:                catalog.SortAlphabetical,
	}
}

// LoadMenu reads menu options from path. A missing file yields the defaults.
func LoadMenu(path string, logger *slog.Logger) (Menu, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ParseMenu(nil, logger)
	}
	if err != nil {
		return Menu{}, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()
	return ParseMenu(f, logger)
}

// ParseMenu decodes menu YAML over the defaults. A nil reader yields the
// defaults.
func ParseMenu(r io.Reader, logger *slog.Logger) (Menu, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := DefaultMenu()
	if r != nil {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return Menu{}, fmt.Errorf("parse menu: %w", err)
		}
	}

	sort, ok := catalog.ParseSortType(m.SortType)
	if !ok {
		logger.Info("unknown sort-type, using alphabetical", "sort-type", m.SortType)
	}
	m.Sort = sort
	m.SortType = string(sort)

	if err := m.Validate(); err != nil {
		return Menu{}, err
	}
	return m, nil
}

func (m Menu) Validate() error {
	if m.DynamicSpeed < 1 {
		return fmt.Errorf("dynamic-speed must be at least 1: %d", m.DynamicSpeed)
	}
	if m.PageCapacity < 1 || m.PageCapacity > paging.DefaultCapacity {
		return fmt.Errorf("page-capacity must be between 1 and %d: %d", paging.DefaultCapacity, m.PageCapacity)
	}
	return nil
}

// RefreshInterval is the live refresh period for a given tick length, or 0
// when the live refresh is disabled.
func (m Menu) RefreshInterval(tick time.Duration) time.Duration {
	if !m.DynamicGUI {
		return 0
	}
	return time.Duration(m.DynamicSpeed) * tick
}

func (m Menu) Options() catalog.Options {
	return catalog.Options{
		Sort:              m.Sort,
		FavoritesFirst:    m.FavoritesFirst,
		IncludeUnentitled: m.AddAllTags,
	}
}
