// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AllSites is the dropdown sentinel selecting every launch site. It never
// appears in the raw data.
const AllSites = "All"

// ErrInvalidSelection is returned when control values cannot form a valid
// site selection or payload range.
var ErrInvalidSelection = errors.New("invalid selection")

// =============================================================================
// Shared Validator Instance
// =============================================================================

// selectionValidate is the validator instance for selection datatypes.
var selectionValidate = validator.New()

// =============================================================================
// Payload Range
// =============================================================================

// PayloadRange is an inclusive payload-mass interval in kilograms.
type PayloadRange struct {
	Min float64 `json:"min" validate:"ltefield=Max"`
	Max float64 `json:"max"`
}

// Validate checks that Min <= Max.
func (r PayloadRange) Validate() error {
	if err := selectionValidate.Struct(r); err != nil {
		return fmt.Errorf("%w: payload range [%g, %g]: %v", ErrInvalidSelection, r.Min, r.Max, err)
	}
	return nil
}

// Contains reports whether payload lies within the range, bounds included.
func (r PayloadRange) Contains(payload float64) bool {
	return payload >= r.Min && payload <= r.Max
}

// Clamp limits both ends of the range to the slider bounds.
func (r PayloadRange) Clamp(b SliderBounds) PayloadRange {
	return PayloadRange{Min: clamp(r.Min, b.Min, b.Max), Max: clamp(r.Max, b.Min, b.Max)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Slider Bounds
// =============================================================================

// SliderBounds configures the payload range slider. The bounds are a UI
// setting and are independent of the dataset's actual payload extent.
type SliderBounds struct {
	Min  float64 `json:"min" yaml:"min" validate:"gte=0,ltfield=Max"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step" validate:"gt=0"`
}

// DefaultSliderBounds returns the 0..10000 kg slider with 1000 kg steps.
func DefaultSliderBounds() SliderBounds {
	return SliderBounds{Min: 0, Max: 10000, Step: 1000}
}

// DefaultPayloadRange returns the initially selected range, 1000..5000 kg.
func DefaultPayloadRange() PayloadRange {
	return PayloadRange{Min: 1000, Max: 5000}
}

// Validate checks that Min < Max and Step > 0.
func (b SliderBounds) Validate() error {
	return selectionValidate.Struct(b)
}

// Mark is one labeled tick on the payload slider.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Marks returns one tick per step from Min to Max inclusive.
func (b SliderBounds) Marks() []Mark {
	if b.Step <= 0 || b.Max < b.Min {
		return nil
	}
	var marks []Mark
	for i := 0; ; i++ {
		v := b.Min + float64(i)*b.Step
		if v > b.Max {
			break
		}
		marks = append(marks, Mark{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return marks
}

// =============================================================================
// Site Selection
// =============================================================================

// IsAllSites reports whether selection is the AllSites sentinel. An empty
// selection is treated as AllSites, matching the dropdown default.
func IsAllSites(selection string) bool {
	return selection == AllSites || selection == ""
}
