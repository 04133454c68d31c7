package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/dab/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()

	tmpDir, err := os.MkdirTemp("", "dab-config")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, ".dab.yaml")
	if err := os.WriteFile(configPath, []byte("public: true\nheader_insertion: true\n"), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg)
	// Output: public=true header_insertion=true no_directory=false cleanup_on_failure=false source_root=src log_level=warn
}
