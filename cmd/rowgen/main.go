// Command rowgen generates row schema code for model structs.
//
// For every exported struct in the input package it emits a
// <name>_row_gen.go file implementing sqlrow.Schema with typed per-field
// reads, registered in an init func. Intended to run via go:generate:
//
//	//go:generate go run github.com/arllen133/sqlrow/cmd/rowgen -i .
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/arllen133/sqlrow/cmd/rowgen/generator"
)

func main() {
	inputDir := flag.String("i", ".", "input directory containing model files")
	outDir := flag.String("o", "", "output directory (default: input directory)")
	outPkg := flag.String("pkg", "", "package name for generated files (default: model package)")
	flag.Parse()

	// Parse config.go for declarative configuration
	cfg, err := generator.ParseConfig(*inputDir)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	// The -o flag wins over config.go OutPath, which wins over the input dir.
	effectiveOutDir := *inputDir
	if cfg != nil && cfg.OutPath != "" {
		effectiveOutDir = cfg.OutPath
		if !filepath.IsAbs(effectiveOutDir) {
			effectiveOutDir = filepath.Join(*inputDir, effectiveOutDir)
		}
	}
	if *outDir != "" {
		effectiveOutDir = *outDir
	}

	models, err := generator.ParseModels(*inputDir)
	if err != nil {
		log.Fatalf("failed to parse models: %v", err)
	}

	if cfg != nil {
		models = filterModels(models, cfg)
	}

	for _, m := range models {
		if *outPkg != "" {
			m.PackageName = *outPkg
		}
		fmt.Printf("Generating row schema for %s...\n", m.Name)
		if err := generator.GenerateFile(m, effectiveOutDir); err != nil {
			log.Fatalf("failed to generate file for %s: %v", m.Name, err)
		}
	}
	fmt.Println("Done.")
}

// filterModels applies Include/Exclude filters from config
func filterModels(models []generator.Model, cfg *generator.GenConfig) []generator.Model {
	if len(cfg.IncludeStructs) == 0 && len(cfg.ExcludeStructs) == 0 {
		return models
	}

	includeSet := make(map[string]bool)
	for _, name := range cfg.IncludeStructs {
		includeSet[name] = true
	}

	excludeSet := make(map[string]bool)
	for _, name := range cfg.ExcludeStructs {
		excludeSet[name] = true
	}

	var result []generator.Model
	for _, m := range models {
		if excludeSet[m.Name] {
			continue
		}
		if len(includeSet) > 0 && !includeSet[m.Name] {
			continue
		}
		result = append(result, m)
	}
	return result
}
