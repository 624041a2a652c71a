// Package seed provides the sample catalog shown on first launch.
package seed

import (
	"time"

	"estate-go/internal/catalog"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Properties returns the four demo listings, newest first. Each call returns
// fresh slices.
func Properties() []catalog.Property {
	return []catalog.Property{
		{
			ID:          "4",
			Title:       "شقة صغيرة مفروشة",
			Description: "شقة استوديو مفروشة بالكامل، مثالية للأفراد أو الأزواج الجدد",
			Price:       2200,
			Kind:        catalog.KindRent,
			Location:    "أبو ظبي، المركزية",
			Bedrooms:    1,
			Bathrooms:   1,
			Area:        65,
			ImageRef:    "https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800",
			Features:    []string{"مفروشة بالكامل", "إنترنت مجاني", "قريبة من المترو"},
			CreatedAt:   day(2024, time.March, 25),
		},
		{
			ID:          "3",
			Title:       "دوبلكس واسع للعائلات",
			Description: "دوبلكس بمساحة كبيرة مثالي للعائلات الكبيرة، مع تشطيبات فاخرة",
			Price:       1800000,
			Kind:        catalog.KindSale,
			Location:    "دبي، جميرا",
			Bedrooms:    4,
			Bathrooms:   3,
			Area:        320,
			ImageRef:    "https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800",
			Features:    []string{"تشطيبات فاخرة", "غرفة خادمة", "شرفات واسعة", "مصعد خاص"},
			CreatedAt:   day(2024, time.March, 10),
		},
		{
			ID:          "2",
			Title:       "شقة عصرية في برج سكني",
			Description: "شقة مفروشة بالكامل في برج حديث مع جميع المرافق والخدمات",
			Price:       3500,
			Kind:        catalog.KindRent,
			Location:    "الرياض، حي العليا",
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        180,
			ImageRef:    "https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800",
			Features:    []string{"مفروشة", "صالة رياضية", "أمن 24 ساعة", "موقف مغطى"},
			CreatedAt:   day(2024, time.February, 20),
		},
		{
			ID:          "1",
			Title:       "فيلا فاخرة بإطلالة بحرية",
			Description: "فيلا راقية بتصميم عصري مع إطلالة خلابة على البحر، تتضمن حديقة واسعة ومسبح خاص",
			Price:       2500000,
			Kind:        catalog.KindSale,
			Location:    "جدة، حي الشاطئ",
			Bedrooms:    5,
			Bathrooms:   4,
			Area:        450,
			ImageRef:    "https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800",
			Features:    []string{"مسبح خاص", "حديقة", "موقف سيارات", "مطبخ حديث", "نظام أمني"},
			CreatedAt:   day(2024, time.January, 15),
		},
	}
}

// Snapshot returns the sample catalog with no favorites.
func Snapshot() *catalog.Snapshot {
	return &catalog.Snapshot{Properties: Properties(), Favorites: []string{}}
}
