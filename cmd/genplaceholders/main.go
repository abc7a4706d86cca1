package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"chosenoffset.com/electricsheep/internal/asset"
	"chosenoffset.com/electricsheep/internal/scene"
)

func main() {
	scenePath := flag.String("scene", "data/default.scene.json", "scene whose placeholder textures are exported")
	outDir := flag.String("out", "data/textures", "directory the PNG files are written to")
	flag.Parse()

	fmt.Println("Electric Sheep Placeholder Texture Exporter")
	fmt.Println("===========================================")
	fmt.Println()

	n, err := export(*scenePath, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! Wrote %d textures to %s.\n", n, *outDir)
	fmt.Println("Point a texture's \"path\" at one of them to replace its placeholder.")
}

// export writes every placeholder texture of the scene as texture_<id>.png.
func export(scenePath, outDir string) (int, error) {
	cfg, err := scene.LoadConfig(scenePath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	n := 0
	for _, tex := range cfg.Textures {
		if tex.Placeholder == nil {
			continue
		}
		img, err := tex.Placeholder.Generate()
		if err != nil {
			return n, fmt.Errorf("texture %d: %w", tex.ID, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("texture_%d.png", tex.ID))
		if err := asset.SavePNG(img, path); err != nil {
			return n, err
		}
		fmt.Printf("  %s (%s %s)\n", path, tex.Placeholder.Color, tex.Placeholder.Pattern)
		n++
	}
	return n, nil
}
