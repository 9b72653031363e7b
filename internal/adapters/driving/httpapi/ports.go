package httpapi

import (
	"errors"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
)

// ErrMissingSummaryService is returned when the summary service is not provided.
var ErrMissingSummaryService = errors.New("httpapi: summary service is required")

// Ports aggregates the driving ports served over HTTP.
// Only Summary is required; routes of a missing port answer 501.
type Ports struct {
	Summary     driving.SummaryService
	Cleaning    driving.CleaningService
	Translation driving.TranslationService
	Document    driving.DocumentService

	// Defaults fill query parameters the caller leaves out.
	// The zero value uses domain.DefaultAppSettings().
	Defaults domain.AppSettings

	// LLMAvailable is reported by /health.
	LLMAvailable bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Summary == nil {
		return ErrMissingSummaryService
	}
	return nil
}

func (p *Ports) defaults() domain.AppSettings {
	if p.Defaults.Summary.Ratio == 0 {
		return domain.DefaultAppSettings()
	}
	return p.Defaults
}
