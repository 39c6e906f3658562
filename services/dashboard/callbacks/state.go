// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package callbacks

import (
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// State is the current value of every dashboard control.
type State struct {
	Site    string
	Payload datatypes.PayloadRange
}

// DecodeState builds a State from raw control values keyed by ControlID.
//
// # Description
//
// The site value must be a JSON string or null (null selects all sites).
// The payload value must be a two-element JSON number array [min, max]
// with min <= max. Controls absent from raw keep their value from base.
//
// # Outputs
//
//   - State: The decoded state.
//   - error: Wraps datatypes.ErrInvalidSelection on any structural problem.
func DecodeState(raw map[ControlID]json.RawMessage, base State) (State, error) {
	st := base
	for id, value := range raw {
		switch id {
		case SiteValue:
			var site *string
			if err := json.Unmarshal(value, &site); err != nil {
				return State{}, fmt.Errorf("%w: %s must be a string: %v", datatypes.ErrInvalidSelection, id, err)
			}
			st.Site = datatypes.AllSites
			if site != nil && *site != "" {
				st.Site = *site
			}

		case PayloadValue:
			var pair []float64
			if err := json.Unmarshal(value, &pair); err != nil {
				return State{}, fmt.Errorf("%w: %s must be [min, max]: %v", datatypes.ErrInvalidSelection, id, err)
			}
			if len(pair) != 2 {
				return State{}, fmt.Errorf("%w: %s must have two values, got %d", datatypes.ErrInvalidSelection, id, len(pair))
			}
			st.Payload = datatypes.PayloadRange{Min: pair[0], Max: pair[1]}

		default:
			return State{}, fmt.Errorf("%w: unknown control %q", datatypes.ErrInvalidSelection, id)
		}
	}

	if err := st.Payload.Validate(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Values returns the state as raw control values, the inverse of
// DecodeState.
func (s State) Values() map[ControlID]any {
	return map[ControlID]any{
		SiteValue:    s.Site,
		PayloadValue: [2]float64{s.Payload.Min, s.Payload.Max},
	}
}
