package form_test

import (
	"errors"
	"slices"
	"testing"

	"estate-go/internal/catalog"
	"estate-go/internal/form"
)

func TestParseNew(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		in, err := form.ParseNew(form.Values{
			"title":       {" Sea view villa "},
			"description": {"Large garden"},
			"price":       {"2500000"},
			"type":        {"sale"},
			"location":    {"Jeddah"},
			"bedrooms":    {"5"},
			"bathrooms":   {"4"},
			"area":        {"450.5"},
			"image":       {"https://example.com/v.jpg"},
			"features":    {"pool, garden,, parking "},
		})
		if err != nil {
			t.Fatalf("ParseNew() error = %v", err)
		}

		if in.Title != "Sea view villa" {
			t.Errorf("Title = %q, want trimmed", in.Title)
		}
		if in.Price != 2500000 || in.Kind != catalog.KindSale {
			t.Errorf("Price, Kind = %v, %v", in.Price, in.Kind)
		}
		if in.Bedrooms != 5 || in.Bathrooms != 4 || in.Area != 450.5 {
			t.Errorf("Bedrooms, Bathrooms, Area = %d, %d, %v", in.Bedrooms, in.Bathrooms, in.Area)
		}
		if !slices.Equal(in.Features, []string{"pool", "garden", "parking"}) {
			t.Errorf("Features = %v", in.Features)
		}
	})

	t.Run("applies defaults to optional fields", func(t *testing.T) {
		in, err := form.ParseNew(form.Values{
			"title":    {"Studio"},
			"price":    {"2200"},
			"location": {"Abu Dhabi"},
			"bedrooms": {"many"},
		})
		if err != nil {
			t.Fatalf("ParseNew() error = %v", err)
		}

		if in.Kind != form.DefaultKind {
			t.Errorf("Kind = %q, want %q", in.Kind, form.DefaultKind)
		}
		if in.Bedrooms != form.DefaultBedrooms || in.Bathrooms != form.DefaultBathrooms {
			t.Errorf("Bedrooms, Bathrooms = %d, %d, want defaults", in.Bedrooms, in.Bathrooms)
		}
		if in.Area != form.DefaultArea {
			t.Errorf("Area = %v, want %v", in.Area, form.DefaultArea)
		}
		if in.ImageRef != form.DefaultImage {
			t.Errorf("ImageRef = %q, want default image", in.ImageRef)
		}
		if in.Features == nil || len(in.Features) != 0 {
			t.Errorf("Features = %#v, want empty non-nil", in.Features)
		}
	})

	t.Run("non-finite area falls back to default", func(t *testing.T) {
		for _, raw := range []string{"Inf", "-Inf", "+Infinity", "NaN"} {
			in, err := form.ParseNew(form.Values{
				"title":    {"Studio"},
				"price":    {"2200"},
				"location": {"Riyadh"},
				"area":     {raw},
			})
			if err != nil {
				t.Fatalf("ParseNew(area %q) error = %v", raw, err)
			}
			if in.Area != form.DefaultArea {
				t.Errorf("ParseNew(area %q).Area = %v, want %v", raw, in.Area, form.DefaultArea)
			}
		}
	})

	t.Run("feature list kept as given", func(t *testing.T) {
		in, err := form.ParseNew(form.Values{
			"title":               {"Villa"},
			"price":               {"900000"},
			"location":            {"Jeddah"},
			"features":            {"ignored, text"},
			form.FieldFeatureList: {"Pool, heated", "Garden", ""},
		})
		if err != nil {
			t.Fatalf("ParseNew() error = %v", err)
		}
		if want := []string{"Pool, heated", "Garden", ""}; !slices.Equal(in.Features, want) {
			t.Errorf("Features = %q, want %q", in.Features, want)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		tests := []struct {
			name  string
			v     form.Values
			field string
		}{
			{"missing title", form.Values{"price": {"1"}, "location": {"x"}}, "title"},
			{"blank title", form.Values{"title": {"  "}, "price": {"1"}, "location": {"x"}}, "title"},
			{"missing price", form.Values{"title": {"t"}, "location": {"x"}}, "price"},
			{"missing location", form.Values{"title": {"t"}, "price": {"1"}}, "location"},
			{"price not a number", form.Values{"title": {"t"}, "price": {"cheap"}, "location": {"x"}}, "price"},
			{"price infinite", form.Values{"title": {"t"}, "price": {"Inf"}, "location": {"x"}}, "price"},
			{"price negative infinite", form.Values{"title": {"t"}, "price": {"-Inf"}, "location": {"x"}}, "price"},
			{"price NaN", form.Values{"title": {"t"}, "price": {"NaN"}, "location": {"x"}}, "price"},
			{"unknown kind", form.Values{"title": {"t"}, "price": {"1"}, "location": {"x"}, "type": {"lease"}}, "kind"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := form.ParseNew(tt.v)
				var verr *catalog.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("ParseNew() error = %v, want ValidationError", err)
				}
				if verr.Field != tt.field {
					t.Errorf("Field = %q, want %q", verr.Field, tt.field)
				}
			})
		}
	})
}

func TestParsePatch(t *testing.T) {
	t.Run("only supplied fields", func(t *testing.T) {
		p, err := form.ParsePatch(form.Values{"price": {"3400"}, "features": {""}})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}

		if p.Price == nil || *p.Price != 3400 {
			t.Errorf("Price = %v, want 3400", p.Price)
		}
		if p.Features == nil || len(p.Features) != 0 {
			t.Errorf("Features = %#v, want empty replacement", p.Features)
		}
		if p.Title != nil || p.Kind != nil || p.Bedrooms != nil || p.Area != nil || p.ImageRef != nil {
			t.Errorf("unsupplied fields set: %+v", p)
		}
	})

	t.Run("empty values", func(t *testing.T) {
		p, err := form.ParsePatch(form.Values{})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}
		if !p.IsEmpty() {
			t.Errorf("ParsePatch(empty) = %+v, want empty patch", p)
		}
	})

	t.Run("kind", func(t *testing.T) {
		p, err := form.ParsePatch(form.Values{"type": {"rent"}})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}
		if p.Kind == nil || *p.Kind != catalog.KindRent {
			t.Errorf("Kind = %v, want rent", p.Kind)
		}
	})

	t.Run("unparsable numbers are errors", func(t *testing.T) {
		for _, field := range []string{"price", "area", "bedrooms", "bathrooms"} {
			t.Run(field, func(t *testing.T) {
				_, err := form.ParsePatch(form.Values{field: {"n/a"}})
				var verr *catalog.ValidationError
				if !errors.As(err, &verr) || verr.Field != field {
					t.Errorf("ParsePatch() error = %v, want ValidationError on %s", err, field)
				}
			})
		}
	})

	t.Run("non-finite numbers are errors", func(t *testing.T) {
		tests := []struct {
			field, raw string
		}{
			{"price", "Inf"},
			{"price", "-Inf"},
			{"area", "Inf"},
			{"area", "NaN"},
		}
		for _, tt := range tests {
			t.Run(tt.field+" "+tt.raw, func(t *testing.T) {
				_, err := form.ParsePatch(form.Values{tt.field: {tt.raw}})
				var verr *catalog.ValidationError
				if !errors.As(err, &verr) || verr.Field != tt.field {
					t.Errorf("ParsePatch() error = %v, want ValidationError on %s", err, tt.field)
				}
			})
		}
	})

	t.Run("empty feature list clears features", func(t *testing.T) {
		p, err := form.ParsePatch(form.Values{form.FieldFeatureList: {}})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}
		if p.Features == nil || len(p.Features) != 0 {
			t.Errorf("Features = %#v, want empty replacement", p.Features)
		}
	})
}

func TestSplitFeatures(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{" , ,", []string{}},
		{"pool", []string{"pool"}},
		{"مسبح خاص، حديقة, موقف سيارات", []string{"مسبح خاص، حديقة", "موقف سيارات"}},
		{"gym,gym", []string{"gym", "gym"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := form.SplitFeatures(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("SplitFeatures(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinFeatures(t *testing.T) {
	in := []string{"pool", "garden"}
	if got := form.SplitFeatures(form.JoinFeatures(in)); !slices.Equal(got, in) {
		t.Errorf("SplitFeatures(JoinFeatures(%v)) = %v", in, got)
	}
}
