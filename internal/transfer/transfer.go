// Package transfer reads and writes the portable export payload, either as a
// JSON file or as a compact text code suitable for a 2D barcode.
package transfer

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/models"
)

var (
	// ErrInvalidPayload is returned for well-formed JSON that fails the schema
	// or consistency checks.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrDecodeFailure is returned for input that is not JSON or not a valid code.
	ErrDecodeFailure = errors.New("could not decode payload")
)

//go:embed payload.schema.json
var schemaJSON []byte

const schemaURL = "schema://stopsmokin/payload.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func payloadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse payload schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add payload schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Document is the wire form of models.State plus export metadata.
type Document struct {
	SmokingEvents   []string                            `json:"smokingEvents"`
	TotalCigarettes int                                 `json:"totalCigarettes"`
	LongestStreak   int                                 `json:"longestStreak"`
	CurrentLevel    int                                 `json:"currentLevel"`
	Achievements    map[string]models.AchievementRecord `json:"achievements"`
	LastSmokeTime   *string                             `json:"lastSmokeTime"`
	ExportedAt      string                              `json:"exportedAt,omitempty"`
	Version         string                              `json:"version,omitempty"`
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NewDocument builds the export document for state.
func NewDocument(state models.State, exportedAt time.Time) Document {
	doc := Document{
		SmokingEvents:   make([]string, len(state.Events)),
		TotalCigarettes: state.TotalCount,
		LongestStreak:   state.LongestStreakHours,
		CurrentLevel:    state.CurrentLevel,
		Achievements:    make(map[string]models.AchievementRecord, len(state.Achievements)),
		ExportedAt:      formatInstant(exportedAt),
		Version:         constants.ExportVersion,
	}
	for i, e := range state.Events {
		doc.SmokingEvents[i] = formatInstant(e)
	}
	for id, rec := range state.Achievements {
		rec.UnlockedAt = rec.UnlockedAt.UTC()
		doc.Achievements[id] = rec
	}
	if state.LastEventTime != nil {
		s := formatInstant(*state.LastEventTime)
		doc.LastSmokeTime = &s
	}
	return doc
}

// Marshal renders the indented export file for state.
func Marshal(state models.State, exportedAt time.Time) ([]byte, error) {
	return json.MarshalIndent(NewDocument(state, exportedAt), "", "  ")
}

// Parse validates raw JSON and converts it to a state. version and exportedAt
// are dropped. Events are sorted and lastSmokeTime is re-derived from them.
func Parse(data []byte) (models.State, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	sch, err := payloadSchema()
	if err != nil {
		return models.State{}, err
	}
	if err := sch.Validate(inst); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return doc.toState()
}

func (d Document) toState() (models.State, error) {
	if d.TotalCigarettes != len(d.SmokingEvents) {
		return models.State{}, fmt.Errorf("%w: totalCigarettes is %d but %d events are listed",
			ErrInvalidPayload, d.TotalCigarettes, len(d.SmokingEvents))
	}

	events := make([]time.Time, len(d.SmokingEvents))
	for i, raw := range d.SmokingEvents {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.State{}, fmt.Errorf("%w: smokingEvents[%d]: %v", ErrInvalidPayload, i, err)
		}
		events[i] = t.UTC()
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Before(events[j]) })

	state := models.State{
		Events:             events,
		TotalCount:         d.TotalCigarettes,
		LongestStreakHours: d.LongestStreak,
		CurrentLevel:       d.CurrentLevel,
		Achievements:       d.Achievements,
	}
	if n := len(events); n > 0 {
		last := events[n-1]
		state.LastEventTime = &last
	}
	state.Normalize()
	return state, nil
}

// EncodeCompact renders state as base64 of the compact JSON document.
func EncodeCompact(state models.State, exportedAt time.Time) (string, error) {
	raw, err := json.Marshal(NewDocument(state, exportedAt))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeCompact reverses EncodeCompact and validates the result.
func DecodeCompact(code string) (models.State, error) {
	code = strings.Join(strings.Fields(code), "")
	if code == "" {
		return models.State{}, fmt.Errorf("%w: empty code", ErrDecodeFailure)
	}
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return Parse(raw)
}

// ExportFileName is the default file name for an export taken on day.
func ExportFileName(day time.Time) string {
	return constants.ExportFilePrefix + day.Format(constants.DateFormat) + constants.ExportFileSuffix
}
