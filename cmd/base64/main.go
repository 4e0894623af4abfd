package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"nanobanana-tryon/internal/domain/valueobjects"
)

var validExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:           "base64 [dir]",
		Short:         "Re-encode images as PNG base64 fixtures",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 指定がなければカレントの「images」ディレクトリを使う
			dir := "images"
			if len(args) == 1 {
				dir = args[0]
			}
			return encodeDir(dir, outDir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "encoded", "output directory")
	return cmd
}

func encodeDir(dir, outDir string, w io.Writer) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	for _, file := range files {
		if file.IsDir() || !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		encoded, err := encode(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("%s: %w", file.Name(), err)
		}

		// ファイル名の拡張子を除いたものをファイル名として保存
		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())) + ".txt"
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(encoded), 0644); err != nil {
			return err
		}
		fmt.Fprintln(w, filepath.Join(outDir, name))
	}

	return nil
}

// encode produces the same PNG base64 payload that is sent to the model.
func encode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	img, err := valueobjects.NewImageData(data)
	if err != nil {
		return "", err
	}

	// 画像をPNGにエンコード
	pngImage, err := img.ToPNG()
	if err != nil {
		return "", err
	}

	return pngImage.ToBase64(), nil
}
