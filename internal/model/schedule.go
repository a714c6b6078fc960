package model

import "github.com/mgrozdek22/TBP-nail-app/internal/interval"

// Location places a technician at a point for a half-open time range.
// For one technician no two pending or approved locations overlap.
//
// Fields:
//  ID           – primary key identifier.
//  TechnicianID – technician being placed.
//  DisplayName  – human readable place name.
//  Lat, Lon     – WGS84 coordinates.
//  Interval     – [valid_from, valid_to).
type Location struct {
	ID           uint64            `json:"id"`            // locations.id
	TechnicianID uint64            `json:"technician_id"` // locations.technician_id
	DisplayName  string            `json:"display_name"`  // locations.display_name
	Lat          float64           `json:"lat"`           // locations.lat
	Lon          float64           `json:"lon"`           // locations.lon
	Interval     interval.Interval `json:"interval"`      // locations.valid_from, valid_to
	Envelope
}

// Availability marks a range as working or not working. It has its own
// overlap namespace, independent of locations.
type Availability struct {
	ID           uint64            `json:"id"`             // availabilities.id
	TechnicianID uint64            `json:"technician_id"`  // availabilities.technician_id
	Working      bool              `json:"working"`        // availabilities.working
	Interval     interval.Interval `json:"interval"`       // availabilities.valid_from, valid_to
	Note         *string           `json:"note,omitempty"` // availabilities.note
	Envelope
}

// MapEntry is an approved technician with the location that is current
// at query time.
type MapEntry struct {
	TechnicianID uint64  `json:"technician_id"`
	Name         string  `json:"name"`
	LocationID   uint64  `json:"location_id"`
	DisplayName  string  `json:"display_name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// MapFilter narrows the map listing. MatchAll requires both the technique
// and the style when both are set; otherwise either one is enough.
type MapFilter struct {
	TechniqueID   uint64
	StyleID       uint64
	MatchAll      bool
	OnlyAvailable bool
}
