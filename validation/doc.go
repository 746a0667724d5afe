// Package validation checks configuration structs against `validate` tags
// using go-playground/validator and reports failures as an AppError whose
// details list every offending field.
//
//	type Config struct {
//	    BufferSize int `mapstructure:"buffer_size" validate:"min=1"`
//	}
//	err := validation.Validate(cfg)
package validation
