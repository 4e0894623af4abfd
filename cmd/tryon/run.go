package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"nanobanana-tryon/internal/application/usecases"
	"nanobanana-tryon/internal/config"
	domainrepos "nanobanana-tryon/internal/domain/repositories"
	domainservices "nanobanana-tryon/internal/domain/services"
	"nanobanana-tryon/internal/infrastructure/services"
	"nanobanana-tryon/internal/logging"
)

// APIKeyEnv is read when --api-key is not given.
const APIKeyEnv = "GEMINI_API_KEY"

var errNoImage = errors.New("no image generated")

type runOptions struct {
	cfgPath     string
	personPath  string
	garmentPath string
	outPath     string
	apiKey      string
	format      string
	quality     int
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tryon",
		Short:         "Virtual try-on from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dress the person in the garment and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return err
			}
			if _, err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
				return err
			}
			if opts.apiKey == "" {
				opts.apiKey = os.Getenv(APIKeyEnv)
			}
			return runTryOn(cmd.Context(), cfg, nil, opts, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "", "config toml path (default $"+config.ConfigPathEnv+")")
	fs.StringVar(&opts.personPath, "person", "", "photo of the person")
	fs.StringVar(&opts.garmentPath, "garment", "", "photo of the garment")
	fs.StringVarP(&opts.outPath, "out", "o", "result.png", "where to write the result")
	fs.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (default $"+APIKeyEnv+")")
	fs.StringVar(&opts.format, "format", "png", "png or jpeg")
	fs.IntVar(&opts.quality, "quality", 0, "JPEG quality (1-100)")
	return cmd
}

func runTryOn(ctx context.Context, cfg *config.Config, httpClient *http.Client, opts runOptions, w io.Writer) error {
	person, err := readOptional(opts.personPath)
	if err != nil {
		return err
	}
	garment, err := readOptional(opts.garmentPath)
	if err != nil {
		return err
	}

	factory := services.NewClientFactoryService(&domainrepos.AIClientConfig{
		UseVertex: cfg.UseVertex,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.GenerateTimeout,
	}, httpClient)
	useCase := usecases.NewTryOnUseCase(nil, domainservices.NewTryOnDomainService(factory), usecases.TryOnConfig{
		Model:        cfg.Model,
		MaxInputSide: cfg.MaxInputSide,
	})

	output, err := useCase.Execute(ctx, usecases.TryOnInput{
		PersonImageData:  person,
		GarmentImageData: garment,
		APIKey:           opts.apiKey,
		Parameters: &usecases.TryOnParametersInput{
			OutputFormat:       opts.format,
			CompressionQuality: opts.quality,
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, output.Status)
	if output.Image == nil {
		return errNoImage
	}

	if err := os.WriteFile(opts.outPath, output.Image.Data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Fprintf(w, "saved %s (%dx%d)\n", opts.outPath, output.Image.Width, output.Image.Height)
	return nil
}

// readOptional leaves validation of missing images to the use case.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
