// Package validation checks the user profile file against its JSON schema
// before any pipeline consumes it.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"

	"winereco/pkg/models"
)

// ValidationError describes one schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ProfileValidator validates user profile files against the bundled schema.
type ProfileValidator struct {
	schema *gojsonschema.Schema
}

func NewProfileValidator(schemaDir string) (*ProfileValidator, error) {
	schemaPath, err := filepath.Abs(filepath.Join(schemaDir, "user-profiles.json"))
	if err != nil {
		return nil, err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + schemaPath))
	if err != nil {
		return nil, fmt.Errorf("load profile schema: %w", err)
	}
	return &ProfileValidator{schema: schema}, nil
}

// Validate checks raw profile-file bytes against the schema.
func (v *ProfileValidator) Validate(data []byte) *ValidationResult {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "document", Message: err.Error()}},
		}
	}
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{Field: e.Field(), Message: e.Description()})
	}
	return out
}

// LoadProfiles reads, schema-validates and decodes a user profile file. An
// invalid file is fatal for the pipeline that needs it.
func LoadProfiles(path, schemaDir string) ([]models.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file %s: %w", path, err)
	}
	validator, err := NewProfileValidator(schemaDir)
	if err != nil {
		return nil, err
	}
	if result := validator.Validate(data); !result.Valid {
		return nil, fmt.Errorf("users file %s failed schema validation: %d violation(s), first: %s %s",
			path, len(result.Errors), result.Errors[0].Field, result.Errors[0].Message)
	}
	var profiles []models.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("users file %s is empty", path)
	}
	return profiles, nil
}
