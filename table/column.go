package table

import (
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/validator"
)

// FilterType selects the widget a column is filtered with.
type FilterType string

const (
	Input         FilterType = "input"
	DateRange     FilterType = "date_range"
	DateTimeRange FilterType = "date_time_range"
	Checkbox      FilterType = "checkbox"
	Radio         FilterType = "radio"
)

// IsRange reports whether the widget produces a date range.
func (f FilterType) IsRange() bool {
	return f == DateRange || f == DateTimeRange
}

var (
	ErrUnknownColumn  = errors.New("unknown or unfilterable column")
	ErrNotSortable    = errors.New("column is not sortable")
	ErrInvalidSort    = errors.New("invalid sort direction")
	ErrDuplicateKey   = errors.New("duplicate column key")
	ErrWrongWidget    = errors.New("operation does not match the column filter type")
	ErrMissingOptions = errors.New("checkbox and radio columns need options")
)

// FacetOption is one discrete facet value of a checkbox or radio column.
type FacetOption struct {
	Text  string `json:"text" yaml:"text" validate:"required"`
	Value any    `json:"value" yaml:"value"`
}

// Column declares how a table column is filtered, sorted and displayed.
type Column struct {
	Key        string        `json:"key" yaml:"key" validate:"required"`
	Title      string        `json:"title" yaml:"title"`
	FilterType FilterType    `json:"filter_type" yaml:"filter_type" validate:"omitempty,oneof=input date_range date_time_range checkbox radio"`
	Options    []FacetOption `json:"options" yaml:"options" validate:"dive"`
	Sortable   bool          `json:"sortable" yaml:"sortable"`
	// Tag columns render values as clickable tags that toggle filters.
	Tag bool `json:"tag" yaml:"tag"`
}

// Filterable reports whether the column may hold filter values.
func (c Column) Filterable() bool {
	return c.FilterType != "" || len(c.Options) > 0 || c.Tag
}

// DisplayTitle returns the title, falling back to the key.
func (c Column) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// Config declares a table instance.
type Config struct {
	// ID identifies the table for snapshots and logs.
	ID       string   `json:"id" validate:"required"`
	Columns  []Column `json:"columns" validate:"dive"`
	PageSize int      `json:"page_size" validate:"gte=0,lte=1024"`
	// Debounce is the quiescence window of text and input edits.
	Debounce time.Duration `json:"debounce" validate:"gte=0"`
	// DefaultSort is applied on mount when the location carries no sort.
	DefaultSort string `json:"default_sort" validate:"sortspec"`
	// Base is merged under every Variables payload.
	Base query.Variables `json:"-"`
}

func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if seen[col.Key] {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, col.Key)
		}
		seen[col.Key] = true
		if (col.FilterType == Checkbox || col.FilterType == Radio) && len(col.Options) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingOptions, col.Key)
		}
	}
	return nil
}
