package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/maintops/crewsched/core/model"
)

// ShiftStore persists the shift table as a JSON file. It is the
// configuration-store collaborator of the engine: the engine itself never
// reads it mid-solve, callers load a snapshot and pass it into the request.
type ShiftStore struct {
	path string
}

// NewShiftStore returns a store backed by the given file path.
func NewShiftStore(path string) *ShiftStore {
	return &ShiftStore{path: path}
}

// Load reads all shift definitions, sorted by trade. A missing file yields an
// empty table.
func (s *ShiftStore) Load() ([]model.ShiftDefinition, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var shifts []model.ShiftDefinition
	if err := json.Unmarshal(b, &shifts); err != nil {
		return nil, fmt.Errorf("invalid shift data in %s: %w", s.path, err)
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Trade < shifts[j].Trade })
	return shifts, nil
}

// Save writes the full shift table, creating the parent directory if needed.
func (s *ShiftStore) Save(shifts []model.ShiftDefinition) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(shifts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// GetByTrade returns the shift definition for a trade.
func (s *ShiftStore) GetByTrade(trade string) (model.ShiftDefinition, error) {
	shifts, err := s.Load()
	if err != nil {
		return model.ShiftDefinition{}, err
	}
	for _, sh := range shifts {
		if sh.Trade == trade {
			return sh, nil
		}
	}
	return model.ShiftDefinition{}, fmt.Errorf("shift for trade %q not found", trade)
}

// Add appends a new shift definition. Trades are unique.
func (s *ShiftStore) Add(shift model.ShiftDefinition) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	shifts, err := s.Load()
	if err != nil {
		return err
	}
	for _, sh := range shifts {
		if sh.Trade == shift.Trade {
			return fmt.Errorf("shift for trade %q already exists", shift.Trade)
		}
	}
	return s.Save(append(shifts, shift))
}

// Update replaces the shift definition of an existing trade.
func (s *ShiftStore) Update(trade string, shift model.ShiftDefinition) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	shifts, err := s.Load()
	if err != nil {
		return err
	}
	for i, sh := range shifts {
		if sh.Trade == trade {
			shifts[i] = shift
			return s.Save(shifts)
		}
	}
	return fmt.Errorf("shift for trade %q not found", trade)
}

// Delete removes the shift definition of a trade.
func (s *ShiftStore) Delete(trade string) error {
	shifts, err := s.Load()
	if err != nil {
		return err
	}
	kept := shifts[:0]
	for _, sh := range shifts {
		if sh.Trade != trade {
			kept = append(kept, sh)
		}
	}
	if len(kept) == len(shifts) {
		return fmt.Errorf("shift for trade %q not found", trade)
	}
	return s.Save(kept)
}

// DecodeShifts reads shift definitions from r in the given format
// ("json", "yaml" or "yml") and validates every record.
func DecodeShifts(r io.Reader, format string) ([]model.ShiftDefinition, error) {
	var shifts []model.ShiftDefinition
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&shifts); err != nil {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&shifts); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, s := range shifts {
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("shift %q: %w", s.Trade, err)
		}
	}
	return shifts, nil
}
