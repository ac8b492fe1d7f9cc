// Package fonts resolves font family names to loaded canvas font families.
// Templates name arbitrary families; everything resolves onto the embedded
// Go font set so rendering never depends on system fonts being installed.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is used when a template does not name a font.
const DefaultFamily = "sans"

var (
	mu       sync.Mutex
	families = map[string]*canvas.FontFamily{}
)

// Family returns a cached canvas font family for the given name. Monospace
// names map to Go Mono; everything else gets Go regular/bold/italic faces.
func Family(name string) (*canvas.FontFamily, error) {
	key := normalize(name)
	mu.Lock()
	defer mu.Unlock()
	if fam, ok := families[key]; ok {
		return fam, nil
	}
	fam, err := load(key)
	if err != nil {
		return nil, err
	}
	families[key] = fam
	return fam, nil
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return DefaultFamily
	}
	if strings.Contains(n, "mono") || strings.Contains(n, "courier") {
		return "mono"
	}
	return DefaultFamily
}

func load(key string) (*canvas.FontFamily, error) {
	fam := canvas.NewFontFamily(key)
	if key == "mono" {
		if err := fam.LoadFont(gomono.TTF, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("load mono font: %w", err)
		}
		return fam, nil
	}
	if err := fam.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if err := fam.LoadFont(gobold.TTF, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	if err := fam.LoadFont(goitalic.TTF, 0, canvas.FontItalic); err != nil {
		return nil, fmt.Errorf("load italic font: %w", err)
	}
	return fam, nil
}
