// Package form converts raw admin form fields into catalog inputs.
//
// Fields arrive as strings keyed by name, whether from CLI flags or a JSON
// request body. Features come either as one comma-separated text field or,
// under FieldFeatureList, as a list whose entries are kept exactly as given.
// A new listing requires a title, a price and a location, and falls back to
// defaults for the optional numbers. An edit only carries the
// fields that were supplied, and a supplied number that does not parse is an
// error rather than a silent default.
package form

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"estate-go/internal/catalog"
)

// Field names accepted in Values.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldKind        = "type"
	FieldLocation    = "location"
	FieldBedrooms    = "bedrooms"
	FieldBathrooms   = "bathrooms"
	FieldArea        = "area"
	FieldImage       = "image"
	FieldFeatures    = "features"

	// FieldFeatureList carries features supplied as a list. When present it
	// takes precedence over FieldFeatures.
	FieldFeatureList = "features[]"
)

// Defaults applied to a new listing when the optional fields are blank or
// do not parse.
const (
	DefaultBedrooms  = 1
	DefaultBathrooms = 1
	DefaultArea      = 100
	DefaultImage     = "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=800"
	DefaultKind      = catalog.KindSale
)

// Values holds raw form input. A missing key means the field was not supplied.
type Values = url.Values

// lookup returns the trimmed first value of key and whether it was supplied.
func lookup(v Values, key string) (string, bool) {
	if !v.Has(key) {
		return "", false
	}
	return strings.TrimSpace(v.Get(key)), true
}

// features returns the supplied feature list and whether any was supplied.
func features(v Values) ([]string, bool) {
	if list, ok := v[FieldFeatureList]; ok {
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	}
	s, ok := lookup(v, FieldFeatures)
	if !ok {
		return []string{}, false
	}
	return SplitFeatures(s), true
}

// ParseNew builds the input for a new listing.
func ParseNew(v Values) (catalog.PropertyInput, error) {
	title, _ := lookup(v, FieldTitle)
	priceRaw, _ := lookup(v, FieldPrice)
	location, _ := lookup(v, FieldLocation)

	for _, req := range []struct{ name, value string }{
		{FieldTitle, title},
		{FieldPrice, priceRaw},
		{FieldLocation, location},
	} {
		if req.value == "" {
			return catalog.PropertyInput{}, &catalog.ValidationError{Field: req.name, Reason: "is required"}
		}
	}

	price, err := parseFloat(FieldPrice, priceRaw)
	if err != nil {
		return catalog.PropertyInput{}, err
	}

	kind := DefaultKind
	if raw, _ := lookup(v, FieldKind); raw != "" {
		if kind, err = catalog.ParseKind(raw); err != nil {
			return catalog.PropertyInput{}, err
		}
	}

	description, _ := lookup(v, FieldDescription)
	image, _ := lookup(v, FieldImage)
	if image == "" {
		image = DefaultImage
	}
	feats, _ := features(v)

	return catalog.PropertyInput{
		Title:       title,
		Description: description,
		Location:    location,
		Price:       price,
		Kind:        kind,
		Bedrooms:    intOr(v, FieldBedrooms, DefaultBedrooms),
		Bathrooms:   intOr(v, FieldBathrooms, DefaultBathrooms),
		Area:        floatOr(v, FieldArea, DefaultArea),
		ImageRef:    image,
		Features:    feats,
	}, nil
}

// ParsePatch builds a partial update from the supplied fields only.
// Text fields are taken as given, so supplying an empty title clears it.
func ParsePatch(v Values) (catalog.PropertyPatch, error) {
	var p catalog.PropertyPatch

	if s, ok := lookup(v, FieldTitle); ok {
		p.Title = &s
	}
	if s, ok := lookup(v, FieldDescription); ok {
		p.Description = &s
	}
	if s, ok := lookup(v, FieldLocation); ok {
		p.Location = &s
	}
	if s, ok := lookup(v, FieldImage); ok {
		p.ImageRef = &s
	}
	if feats, ok := features(v); ok {
		p.Features = feats
	}
	if s, ok := lookup(v, FieldKind); ok {
		k, err := catalog.ParseKind(s)
		if err != nil {
			return catalog.PropertyPatch{}, err
		}
		p.Kind = &k
	}

	var err error
	if p.Price, err = optionalFloat(v, FieldPrice); err != nil {
		return catalog.PropertyPatch{}, err
	}
	if p.Area, err = optionalFloat(v, FieldArea); err != nil {
		return catalog.PropertyPatch{}, err
	}
	if p.Bedrooms, err = optionalInt(v, FieldBedrooms); err != nil {
		return catalog.PropertyPatch{}, err
	}
	if p.Bathrooms, err = optionalInt(v, FieldBathrooms); err != nil {
		return catalog.PropertyPatch{}, err
	}
	return p, nil
}

// SplitFeatures splits a comma-separated list, trimming each entry and
// dropping empty ones. The result is never nil.
func SplitFeatures(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// JoinFeatures is the inverse of SplitFeatures, used to prefill edit forms.
func JoinFeatures(features []string) string {
	return strings.Join(features, ", ")
}

// parseFloat accepts finite numbers only. ParseFloat also reads "Inf" and
// "NaN", which cannot be stored or encoded as JSON.
func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &catalog.ValidationError{Field: field, Reason: "must be a number"}
	}
	return f, nil
}

func intOr(v Values, key string, def int) int {
	s, _ := lookup(v, key)
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func floatOr(v Values, key string, def float64) float64 {
	s, _ := lookup(v, key)
	f, err := parseFloat(key, s)
	if err != nil {
		return def
	}
	return f
}

func optionalFloat(v Values, key string) (*float64, error) {
	s, ok := lookup(v, key)
	if !ok {
		return nil, nil
	}
	f, err := parseFloat(key, s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func optionalInt(v Values, key string) (*int, error) {
	s, ok := lookup(v, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &catalog.ValidationError{Field: key, Reason: "must be a whole number"}
	}
	return &n, nil
}
