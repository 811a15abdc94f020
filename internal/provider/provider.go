// Package provider defines the data-source abstraction layer: a Provider
// interface, a Fetcher interface, and a registry that routes requests to
// the right source by model type. EDGAR is the primary source; the layer
// keeps room for additional regulators without touching callers.
package provider

import (
	"context"
	"fmt"
	"time"
)

// ProviderInfo holds metadata about a registered provider.
type ProviderInfo struct {
	Name        string      `json:"name"`        // e.g., "edgar"
	Description string      `json:"description"` // human-readable description
	Website     string      `json:"website"`     // e.g., "https://www.sec.gov"
	Models      []ModelType `json:"models"`      // supported standard models
}

// Provider is the interface every data source implements. A provider
// registers one Fetcher per model type it can serve.
type Provider interface {
	// Info returns metadata about this provider.
	Info() ProviderInfo

	// Fetcher returns the fetcher for the given model type, or nil if unsupported.
	Fetcher(model ModelType) Fetcher

	// SupportedModels returns all model types this provider can fetch.
	SupportedModels() []ModelType

	// Ping verifies the provider's connectivity.
	Ping(ctx context.Context) error
}

// QueryParams is the generic query parameter map passed to fetchers.
// Each fetcher declares which keys it requires and supports.
type QueryParams map[string]string

// QueryParamKey constants for commonly used query parameters.
const (
	ParamCIK        = "cik"         // central index key, e.g., "0000320193"
	ParamCompany    = "company"     // company name fragment for search
	ParamFilingType = "filing_type" // e.g., "8-K", "10-K"
	ParamAfter      = "after"       // inclusive lower date bound, YYYY-MM-DD
	ParamBefore     = "before"      // exclusive upper date bound, YYYY-MM-DD
	ParamItem       = "item"        // item number filter, e.g., "5.02"
	ParamURL        = "url"         // filing document URL
	ParamItems      = "items"       // comma-separated item numbers to extract
	ParamProvider   = "provider"    // override provider name
)

// FetchResult wraps a fetcher result with metadata.
type FetchResult struct {
	Provider  string    `json:"provider"`   // which provider returned this data
	Model     ModelType `json:"model"`      // the standard model type
	Data      any       `json:"data"`       // the fetched data (typed per model)
	FetchedAt time.Time `json:"fetched_at"` // when the data was fetched
	Cached    bool      `json:"cached"`     // whether this came from cache
}

// Fetcher handles a single standard model type.
type Fetcher interface {
	// ModelType returns the standard model type this fetcher handles.
	ModelType() ModelType

	// Description returns a human-readable description of what this fetcher does.
	Description() string

	// RequiredParams returns the parameter keys this fetcher requires.
	RequiredParams() []string

	// OptionalParams returns the parameter keys this fetcher optionally accepts.
	OptionalParams() []string

	// Fetch retrieves data for the given query parameters.
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider doesn't support a model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ValidateParams checks that all required parameters are present in params.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}
