package main

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/cespare/cp"
	"github.com/urfave/cli/v2"
)

func exportHangCommand() *cli.Command {
	return &cli.Command{
		Name:      "export-hang",
		Usage:     "copy a hung grid's source file into ./hangs for later review",
		ArgsUsage: "<source-file>",
		Action:    runExportHang,
	}
}

func runExportHang(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("export-hang: expected exactly one source file argument")
	}
	src := c.Args().First()

	if err := os.MkdirAll("hangs", 0o755); err != nil {
		return fmt.Errorf("export-hang: %w", err)
	}

	dst := filepath.Join("hangs", filepath.Base(src))
	if err := cp.CopyFile(dst, src); err != nil {
		return fmt.Errorf("export-hang: copying %s to %s: %w", src, dst, err)
	}

	fmt.Println("exported to", dst)
	return nil
}
