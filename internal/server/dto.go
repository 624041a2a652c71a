package server

import (
	"fmt"
	"strconv"
	"time"

	"estate-go/internal/catalog"
	"estate-go/internal/form"
	"estate-go/internal/pricefmt"
)

// PropertyResponse is a listing as the UI renders it.
type PropertyResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Price          float64   `json:"price"`
	FormattedPrice string    `json:"formattedPrice"`
	Type           string    `json:"type"`
	TypeLabel      string    `json:"typeLabel"`
	Bedrooms       int       `json:"bedrooms"`
	Bathrooms      int       `json:"bathrooms"`
	Area           float64   `json:"area"`
	Image          string    `json:"image"`
	Features       []string  `json:"features"`
	CreatedAt      time.Time `json:"createdAt"`
	Favorite       bool      `json:"favorite"`
}

// ListResponse wraps a list of listings with its length.
type ListResponse struct {
	Data  []PropertyResponse `json:"data"`
	Total int                `json:"total"`
}

// FavoriteResponse reports the favorite state after a toggle.
type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func toResponse(p catalog.Property, favorite bool, f *pricefmt.Formatter) PropertyResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PropertyResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		Price:          p.Price,
		FormattedPrice: f.Price(p.Price, p.Kind),
		Type:           string(p.Kind),
		TypeLabel:      f.KindLabel(p.Kind),
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		Area:           p.Area,
		Image:          p.ImageRef,
		Features:       features,
		CreatedAt:      p.CreatedAt,
		Favorite:       favorite,
	}
}

// toValues converts a decoded JSON request body into form values. Numbers
// and strings are accepted for every field. Features may also be an array of
// strings, which is passed on unchanged. Null fields count as not supplied.
func toValues(body map[string]any) (form.Values, error) {
	values := make(form.Values, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case nil:
		case string:
			values.Set(key, v)
		case float64:
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		case []any:
			if key != form.FieldFeatures {
				return nil, &catalog.ValidationError{Field: key, Reason: "must not be a list"}
			}
			list := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, &catalog.ValidationError{Field: key, Reason: "must be a list of strings"}
				}
				list = append(list, s)
			}
			values[form.FieldFeatureList] = list
		default:
			return nil, &catalog.ValidationError{Field: key, Reason: fmt.Sprintf("unsupported value %v", v)}
		}
	}
	return values, nil
}
