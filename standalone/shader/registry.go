// Package shader applies display effects to the presented VDP frame.
package shader

import "sort"

// ShaderInfo describes an available effect
type ShaderInfo struct {
	ID          string // Identifier used in config and on the command line
	Name        string
	Description string
	Weight      int  // Higher weight = applied earlier in chain
	Preprocess  bool // Runs before the Kage chain (xBR, ghosting)
}

// AvailableShaders lists every effect that can be enabled
var AvailableShaders = []ShaderInfo{
	{
		ID:          "xbr",
		Name:        "Pixel Smoothing (xBR)",
		Description: "Smooth diagonal edges of text and sprites while keeping them sharp",
		Preprocess:  true,
	},
	{
		ID:          "ghosting",
		Name:        "Phosphor Persistence",
		Description: "Ghost trails from slow CRT phosphor decay",
		Preprocess:  true,
	},
	{
		ID:          "gamma",
		Name:        "CRT Gamma",
		Description: "Darker midtones of a CRT monitor",
		Weight:      900,
	},
	{
		ID:          "hsoft",
		Name:        "Horizontal Softness",
		Description: "Bandwidth-limited horizontal blur of an analog VGA cable",
		Weight:      770,
	},
	{
		ID:          "vblur",
		Name:        "Vertical Blur",
		Description: "Electron beam softness between scanlines",
		Weight:      760,
	},
	{
		ID:          "monochrome",
		Name:        "Monochrome",
		Description: "White phosphor monitor",
		Weight:      700,
	},
	{
		ID:          "green",
		Name:        "Green Screen",
		Description: "P1 green phosphor monitor",
		Weight:      690,
	},
	{
		ID:          "amber",
		Name:        "Amber Screen",
		Description: "P3 amber phosphor monitor",
		Weight:      680,
	},
	{
		ID:          "bloom",
		Name:        "Phosphor Glow",
		Description: "Bright pixels glow into neighbors",
		Weight:      550,
	},
	{
		ID:          "scanlines",
		Name:        "Scanlines",
		Description: "Dark gaps between the rows of the video mode",
		Weight:      400,
	},
	{
		ID:          "crt",
		Name:        "CRT",
		Description: "Curved screen with RGB separation and vignette",
		Weight:      25,
	},
}

var byID map[string]ShaderInfo

func init() {
	byID = make(map[string]ShaderInfo, len(AvailableShaders))
	for _, s := range AvailableShaders {
		byID[s.ID] = s
	}
}

// Known reports whether id names an available effect.
func Known(id string) bool {
	_, ok := byID[id]
	return ok
}

// GetShaderWeight returns the weight for a shader ID (0 if unknown)
func GetShaderWeight(id string) int {
	return byID[id].Weight
}

// IsPreprocess returns true if the shader ID is a preprocessing effect
func IsPreprocess(id string) bool {
	return byID[id].Preprocess
}

// HasXBR reports whether ids enables xBR scaling.
func HasXBR(ids []string) bool {
	return contains(ids, "xbr")
}

func hasGhosting(ids []string) bool {
	return contains(ids, "ghosting")
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}

// chainOrder returns the Kage passes of ids in application order: heaviest
// first, ties by ID. Preprocess effects, unknown IDs and repeats are dropped.
func chainOrder(ids []string) []string {
	chain := make([]string, 0, len(ids))
	for _, id := range ids {
		if !Known(id) || IsPreprocess(id) || contains(chain, id) {
			continue
		}
		chain = append(chain, id)
	}
	sort.Slice(chain, func(i, j int) bool {
		wi, wj := GetShaderWeight(chain[i]), GetShaderWeight(chain[j])
		if wi != wj {
			return wi > wj
		}
		return chain[i] < chain[j]
	})
	return chain
}
