package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type fontStyle int

const (
	styleRegular fontStyle = iota
	styleMedium
	styleBold
	styleMono
)

// fontSet holds the parsed Go fonts. Parsed fonts are safe to share; faces are not,
// so every render builds its own through faceCache.
type fontSet map[fontStyle]*truetype.Font

func loadFonts() (fontSet, error) {
	sources := map[fontStyle][]byte{
		styleRegular: goregular.TTF,
		styleMedium:  gomedium.TTF,
		styleBold:    gobold.TTF,
		styleMono:    gomono.TTF,
	}
	fonts := make(fontSet, len(sources))
	for style, ttf := range sources {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font %d: %w", style, err)
		}
		fonts[style] = f
	}
	return fonts, nil
}

type faceKey struct {
	style fontStyle
	size  float64
}

type faceCache struct {
	fonts fontSet
	faces map[faceKey]font.Face
}

func newFaceCache(fonts fontSet) *faceCache {
	return &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)}
}

func (c *faceCache) get(style fontStyle, size float64) font.Face {
	key := faceKey{style: style, size: size}
	if face, ok := c.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(c.fonts[style], &truetype.Options{Size: size, Hinting: font.HintingFull})
	c.faces[key] = face
	return face
}

func (c *faceCache) close() {
	for _, face := range c.faces {
		_ = face.Close()
	}
}
