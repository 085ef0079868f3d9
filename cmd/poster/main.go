package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/woozymasta/osmposter/internal/geocode"
	"github.com/woozymasta/osmposter/internal/logger"
	"github.com/woozymasta/osmposter/internal/overpass"
	"github.com/woozymasta/osmposter/internal/poster"
	"github.com/woozymasta/osmposter/internal/theme"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Radius    float64 `short:"r" long:"radius"   env:"POSTER_RADIUS" description:"Radius in kilometers from the place center" default:"20"`
	Output    string  `short:"o" long:"output"   env:"POSTER_OUTPUT" description:"Output file (.png or .webp, default <label>_poster.png)"`
	DPI       int     `short:"d" long:"dpi"      env:"POSTER_DPI"    description:"Resolution in DPI (use 300 for print)" default:"150"`
	Label     string  `short:"l" long:"label"    description:"Title label (default: first part of the place name)"`
	Region    string  `short:"R" long:"region"   description:"Region label for the top of the poster (default: second part of the place name)"`
	NoLabels  bool    `short:"n" long:"no-labels" description:"Omit all text from the poster"`
	GeoJSON   string  `short:"g" long:"geojson"  description:"Also dump classified features as minified GeoJSON to this path"`
	Nominatim string  `long:"nominatim-url" env:"NOMINATIM_URL" description:"Nominatim search endpoint override"`
	Overpass  string  `long:"overpass-url"  env:"OVERPASS_URL"  description:"Overpass interpreter endpoint override"`

	Args struct {
		Place string `positional-arg-name:"PLACE" description:"Place name, e.g. \"San Jose, California, USA\""`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	label, region := splitPlace(opts.Args.Place)
	if opts.Label != "" {
		label = opts.Label
	}
	if opts.Region != "" {
		region = opts.Region
	}

	output := opts.Output
	if output == "" {
		output = slug(label) + "_poster.png"
	}

	th, err := theme.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load theme")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 120 * time.Second,
	}

	pipeline := &poster.Pipeline{
		Geocoder: geocode.NewNominatim(client, opts.Nominatim),
		Repo:     overpass.NewClient(client, opts.Overpass),
		Theme:    th,
	}

	log.Info().
		Str("place", opts.Args.Place).
		Float64("radius_km", opts.Radius).
		Int("dpi", opts.DPI).
		Str("output", output).
		Bool("labels", !opts.NoLabels).
		Msg("Starting poster generation")

	err = pipeline.Run(context.Background(), poster.Options{
		Place:    opts.Args.Place,
		RadiusKm: opts.Radius,
		DPI:      opts.DPI,
		Output:   output,
		Label:    label,
		Region:   region,
		NoLabels: opts.NoLabels,
		GeoJSON:  opts.GeoJSON,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Poster generation failed")
	}

	log.Info().
		Str("label", label).
		Str("region", region).
		Str("output", output).
		Msg("Poster generation finished successfully")
}

// splitPlace derives default label and region from a comma-separated
// place name, e.g. "San Jose, California, USA" -> "San Jose", "California".
func splitPlace(place string) (label, region string) {
	parts := strings.Split(place, ",")

	label = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		region = strings.TrimSpace(parts[1])
	}

	return label, region
}

// slug turns a label into a safe file name stem.
func slug(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")

	return s
}
