package models

import "fmt"

// ImageMimeType is the closed set of image formats the system stores.
type ImageMimeType string

const (
	MimeJPEG ImageMimeType = "image/jpeg"
	MimePNG  ImageMimeType = "image/png"
	MimeGIF  ImageMimeType = "image/gif"
)

// Valid reports whether m is a supported image mime type.
func (m ImageMimeType) Valid() bool {
	switch m {
	case MimeJPEG, MimePNG, MimeGIF:
		return true
	}
	return false
}

// ParseImageMimeType converts a string into an ImageMimeType.
func ParseImageMimeType(s string) (ImageMimeType, error) {
	m := ImageMimeType(s)
	if !m.Valid() {
		return "", fmt.Errorf("unsupported image mime type %q: %w", s, ErrValidation)
	}
	return m, nil
}

// SubmissionResult is the closed set of outcomes of sending a story to a market.
type SubmissionResult string

const (
	SubmissionPending          SubmissionResult = "pending"
	SubmissionAccepted         SubmissionResult = "accepted"
	SubmissionRejected         SubmissionResult = "rejected"
	SubmissionRewriteRequested SubmissionResult = "rewrite_requested"
	SubmissionWithdrawn        SubmissionResult = "withdrawn"
	SubmissionIgnored          SubmissionResult = "ignored"
)

// Valid reports whether r is a known submission result.
func (r SubmissionResult) Valid() bool {
	switch r {
	case SubmissionPending, SubmissionAccepted, SubmissionRejected,
		SubmissionRewriteRequested, SubmissionWithdrawn, SubmissionIgnored:
		return true
	}
	return false
}

// ParseSubmissionResult converts a string into a SubmissionResult.
func ParseSubmissionResult(s string) (SubmissionResult, error) {
	r := SubmissionResult(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown submission result %q: %w", s, ErrValidation)
	}
	return r, nil
}

// RelationshipType is the closed set of character-to-character relationship kinds.
type RelationshipType string

const (
	RelationshipFamily       RelationshipType = "family"
	RelationshipPersonal     RelationshipType = "personal"
	RelationshipRomantic     RelationshipType = "romantic"
	RelationshipProfessional RelationshipType = "professional"
	RelationshipOther        RelationshipType = "other"
)

// Valid reports whether t is a known relationship type.
func (t RelationshipType) Valid() bool {
	switch t {
	case RelationshipFamily, RelationshipPersonal, RelationshipRomantic,
		RelationshipProfessional, RelationshipOther:
		return true
	}
	return false
}

// ParseRelationshipType converts a string into a RelationshipType.
func ParseRelationshipType(s string) (RelationshipType, error) {
	t := RelationshipType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown relationship type %q: %w", s, ErrValidation)
	}
	return t, nil
}
