// Package input decodes invocation payloads into run parameters.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

// DefaultRetentionDays applies when the payload has no retention_days field
const DefaultRetentionDays = 7

const retentionField = "retention_days"

// Input is a validated invocation
type Input struct {
	RetentionDays int
	// Defaulted is true when retention_days was absent
	Defaulted bool
}

// Parse reads retention_days from a JSON object. An absent field yields
// defaultDays. A present field must be a non-negative integer, either a JSON
// number or a string holding one; null, fractions, negatives and anything
// else fail with model.ErrInvalidRetention.
func Parse(payload []byte, defaultDays int) (Input, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Input{RetentionDays: defaultDays, Defaulted: true}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Input{}, fmt.Errorf("invocation payload must be a JSON object: %w", err)
	}

	raw, ok := fields[retentionField]
	if !ok {
		return Input{RetentionDays: defaultDays, Defaulted: true}, nil
	}

	days, err := parseRetention(raw)
	if err != nil {
		return Input{}, err
	}

	return Input{RetentionDays: days}, nil
}

func parseRetention(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}

	days, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: got %s", model.ErrInvalidRetention, string(raw))
	}
	if days < 0 {
		return 0, fmt.Errorf("%w: got %d", model.ErrInvalidRetention, days)
	}

	return days, nil
}
