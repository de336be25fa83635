package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Table holds the defaults applied to every table instance.
type Table struct {
	PageSize    int           `json:"page_size" yaml:"page_size" validate:"gte=1,lte=1024"`
	Debounce    time.Duration `json:"debounce" yaml:"debounce" validate:"gte=0"`
	Timezone    string        `json:"timezone" yaml:"timezone"`
	DefaultSort string        `json:"default_sort" yaml:"default_sort"`
}

// Location resolves the configured timezone, falling back to time.Local.
func (t *Table) Location() (*time.Location, error) {
	if t.Timezone == "" || t.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid table timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

func getTableConfig(v *viper.Viper) *Table {
	return &Table{
		PageSize:    getIntOrDefault(v, "table.page_size", 10),
		Debounce:    getDurationOrDefault(v, "table.debounce", time.Second),
		Timezone:    v.GetString("table.timezone"),
		DefaultSort: v.GetString("table.default_sort"),
	}
}
