package model

import "strings"

// Technician is a listed provider. Name is unique among pending and
// approved technicians after normalization.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name as submitted.
//  Description – free-form profile text (nullable).
//  Phone       – contact phone (nullable).
//  Instagram   – instagram handle (nullable).
type Technician struct {
	ID          uint64  `json:"id"`                    // technicians.id
	Name        string  `json:"name"`                  // technicians.name
	Description *string `json:"description,omitempty"` // technicians.description
	Phone       *string `json:"phone,omitempty"`       // technicians.phone
	Instagram   *string `json:"instagram,omitempty"`   // technicians.instagram
	Envelope
}

// CatalogItem is a technique or a style. The two live in separate tables
// and separate name namespaces but share a shape.
type CatalogItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Envelope
}

// Catalog selects the techniques or styles namespace.
type Catalog string

const (
	CatalogTechniques Catalog = "techniques"
	CatalogStyles     Catalog = "styles"
)

// Kind returns the moderation kind for entries of the catalog.
func (c Catalog) Kind() EntityKind {
	if c == CatalogStyles {
		return KindStyle
	}
	return KindTechnique
}

// LinkKind returns the moderation kind for technician links into the catalog.
func (c Catalog) LinkKind() EntityKind {
	if c == CatalogStyles {
		return KindTechnicianStyle
	}
	return KindTechnicianTechnique
}

// Link ties a technician to a technique or style.
type Link struct {
	ID           uint64 `json:"id"`
	TechnicianID uint64 `json:"technician_id"`
	TargetID     uint64 `json:"target_id"`
	TargetName   string `json:"target_name"`
	Envelope
}

// TechnicianDetail is the public profile view.
type TechnicianDetail struct {
	Technician
	Techniques []CatalogItem `json:"techniques"`
	Styles     []CatalogItem `json:"styles"`
	Ratings    RatingSummary `json:"ratings"`
}

// RatingSummary averages a technician's approved reviews.
type RatingSummary struct {
	Count      int     `json:"count"`
	Technician float64 `json:"technician"`
	Technique  float64 `json:"technique"`
	Style      float64 `json:"style"`
}

// NormalizeName is the form names are compared in: trimmed, inner
// whitespace collapsed, lower case.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
