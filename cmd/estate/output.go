package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"estate-go/internal/catalog"
	"estate-go/internal/pricefmt"
)

// printProperties writes one row per listing. Favorites are starred.
func printProperties(w io.Writer, props []catalog.Property, f *pricefmt.Formatter, isFavorite func(string) bool) {
	if len(props) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTYPE\tPRICE\tTITLE\tLOCATION\tADDED")
	for _, p := range props {
		star := " "
		if isFavorite(p.ID) {
			star = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			star, p.ID, f.KindLabel(p.Kind), f.Price(p.Price, p.Kind), p.Title, p.Location,
			p.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d propert%s\n", len(props), plural(len(props), "y", "ies"))
}

// printProperty writes every field of a single listing.
func printProperty(w io.Writer, p catalog.Property, f *pricefmt.Formatter, favorite bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Type:\t%s\n", f.KindLabel(p.Kind))
	fmt.Fprintf(tw, "Price:\t%s\n", f.Price(p.Price, p.Kind))
	fmt.Fprintf(tw, "Location:\t%s\n", p.Location)
	fmt.Fprintf(tw, "Bedrooms:\t%d\n", p.Bedrooms)
	fmt.Fprintf(tw, "Bathrooms:\t%d\n", p.Bathrooms)
	fmt.Fprintf(tw, "Area:\t%s m²\n", f.Amount(p.Area))
	fmt.Fprintf(tw, "Features:\t%s\n", strings.Join(p.Features, ", "))
	fmt.Fprintf(tw, "Image:\t%s\n", p.ImageRef)
	fmt.Fprintf(tw, "Added:\t%s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(tw, "Favorite:\t%v\n", favorite)
	tw.Flush()
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
