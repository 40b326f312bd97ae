package domain

import (
	"errors"
	"fmt"
	"strings"
)

// IssueTier is the validation tier that produced an issue.
type IssueTier string

// Validation tiers, run in this order.
const (
	TierStructural  IssueTier = "structural"
	TierReferential IssueTier = "referential"
	TierSemantic    IssueTier = "semantic"
)

// IssueKind is the machine-readable kind tag of an issue.
type IssueKind string

// Error kinds.
const (
	IssueStructuralViolation       IssueKind = "StructuralViolation"
	IssueReferentialViolation      IssueKind = "ReferentialViolation"
	IssueUnrecognizedSchemaVersion IssueKind = "UnrecognizedSchemaVersion"
)

// Warning kinds.
const (
	IssueExtentInconsistency      IssueKind = "ExtentInconsistency"
	IssueImplausibleValue         IssueKind = "ImplausibleValue"
	IssueUnitMismatch             IssueKind = "UnitMismatch"
	IssueGeometryEncodingMismatch IssueKind = "GeometryEncodingMismatch"
	IssueSchemaVersionDrift       IssueKind = "SchemaVersionDrift"
)

// Sentinel returns the error sentinel matching an error kind, or nil for warning kinds.
func (k IssueKind) Sentinel() error {
	switch k {
	case IssueStructuralViolation:
		return ErrStructuralViolation
	case IssueReferentialViolation:
		return ErrReferentialViolation
	case IssueUnrecognizedSchemaVersion:
		return ErrUnrecognizedSchemaVersion
	default:
		return nil
	}
}

// String returns the string representation.
func (k IssueKind) String() string {
	return string(k)
}

// Issue codes give finer detail than the kind.
const (
	CodeRequired          = "required"
	CodeTooLong           = "too_long"
	CodeInvalidEnum       = "invalid_enum"
	CodeInvalidRange      = "invalid_range"
	CodeNotFinite         = "not_finite"
	CodeElevationOrder    = "elevation_order"
	CodeBoundaryOrder     = "boundary_order"
	CodeTooFewPoints      = "too_few_points"
	CodeGeometryEncoding  = "geometry_encoding"
	CodePayloadSize       = "payload_size"
	CodeDanglingReference = "dangling_reference"
	CodeDuplicateID       = "duplicate_id"
	CodeOutsideExtent     = "outside_extent"
	CodeImplausible       = "implausible"
	CodeUnitMismatch      = "unit_mismatch"
	CodeUnknownMajor      = "unknown_major"
	CodeUnknownVersion    = "unknown_version"
)

// Issue is one validation finding.
type Issue struct {
	Tier IssueTier
	Kind IssueKind

	// Code refines Kind, e.g. "required" or "duplicate_id".
	Code string

	// Path locates the offending field, e.g. "models[0].components[2].materialRef".
	Path string

	// EntityID is the identifier of the offending entity, may be empty.
	EntityID string

	Message string
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationResult is the complete report of one validation pass.
type ValidationResult struct {
	Errors   []Issue
	Warnings []Issue
}

// IsValid returns true if there are no errors. Warnings never affect validity.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError records an error.
func (r *ValidationResult) AddError(i Issue) {
	r.Errors = append(r.Errors, i)
}

// AddWarning records a warning.
func (r *ValidationResult) AddWarning(i Issue) {
	r.Warnings = append(r.Warnings, i)
}

// ErrorsOfKind returns the errors with kind k.
func (r *ValidationResult) ErrorsOfKind(k IssueKind) []Issue {
	var out []Issue
	for _, i := range r.Errors {
		if i.Kind == k {
			out = append(out, i)
		}
	}
	return out
}

// Err folds a failed result into an error, or returns nil when valid.
// The error wraps the sentinel of every error kind present and names every
// offending entity.
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return &ValidationError{Issues: r.Errors}
}

// ValidationError is returned by ValidationResult.Err.
type ValidationError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d error(s)", len(e.Issues))
	for _, i := range e.Issues {
		b.WriteString("; ")
		if i.EntityID != "" {
			fmt.Fprintf(&b, "[%s] ", i.EntityID)
		}
		b.WriteString(i.String())
	}
	return b.String()
}

// Unwrap returns the distinct kind sentinels in first-seen order.
func (e *ValidationError) Unwrap() []error {
	var out []error
	for _, i := range e.Issues {
		s := i.Kind.Sentinel()
		if s == nil {
			continue
		}
		dup := false
		for _, o := range out {
			if errors.Is(o, s) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
