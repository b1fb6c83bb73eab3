// Package templates serves the photostrip template catalog. Templates are a
// fixed design asset shipped with the storefront, so the catalog is compiled
// in rather than stored.
package templates

import (
	"fmt"

	"github.com/flamoure/flamoure-backend/pkg/errors"
)

// Template is one photostrip design.
type Template struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BgColor         string `json:"bgColor"`
	TextColor       string `json:"textColor"`
	BorderColor     string `json:"borderColor"`
	BackgroundImage string `json:"backgroundImage"`
}

var catalog = buildCatalog()

func buildCatalog() []Template {
	out := make([]Template, 0, 16)

	// Basic series alternates light and dark variants.
	for i := 1; i <= 9; i++ {
		bg, text := "#ffffff", "#000000"
		if i%2 == 0 {
			bg, text = "#111111", "#ffffff"
		}
		out = append(out, Template{
			ID:              fmt.Sprintf("basic-0%d", i),
			Name:            fmt.Sprintf("BASIC_0%d", i),
			BgColor:         bg,
			TextColor:       text,
			BorderColor:     "transparent",
			BackgroundImage: fmt.Sprintf("/product/photostripes/Basic Series/basic  (%d).png", i),
		})
	}

	for i := 1; i <= 3; i++ {
		out = append(out, Template{
			ID:              fmt.Sprintf("cupid-0%d", i),
			Name:            fmt.Sprintf("CUPID_0%d", i),
			BgColor:         "#ffffff",
			TextColor:       "#ff4d4d",
			BorderColor:     "transparent",
			BackgroundImage: fmt.Sprintf("/product/photostripes/Cupid series/cupid (%d).png", i),
		})
	}

	// Kpop 02 never shipped.
	for _, k := range []struct {
		num     string
		bg, txt string
	}{
		{"01", "#000000", "#ccff00"},
		{"03", "#ffffff", "#000000"},
		{"04", "#111111", "#ffffff"},
		{"05", "#ccff00", "#000000"},
	} {
		out = append(out, Template{
			ID:              "kpop-" + k.num,
			Name:            "KPOP_" + k.num,
			BgColor:         k.bg,
			TextColor:       k.txt,
			BorderColor:     "transparent",
			BackgroundImage: "/product/photostripes/Kpop Series/" + k.num + ".png",
		})
	}

	return out
}

// List returns every template in display order.
func List() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// Get looks a template up by id.
func Get(id string) (Template, error) {
	for _, t := range catalog {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, errors.New(errors.CodeNotFound, "template not found: "+id)
}

// Exists reports whether id names a shipped template.
func Exists(id string) bool {
	_, err := Get(id)
	return err == nil
}
