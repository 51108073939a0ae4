// Command scorelib is the standalone CLI over the library: it renders a
// MusicXML/MXL document to SVG, generates a MIDI file, emits the
// playback map, serves the HTTP API, or opens an interactive explorer
// over the unrolled play order.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/notalib/scorelib/httpapi"
	"github.com/notalib/scorelib/ingest"
	"github.com/notalib/scorelib/midiwriter"
	"github.com/notalib/scorelib/model"
	"github.com/notalib/scorelib/playback"
	"github.com/notalib/scorelib/render"
)

var output = termenv.NewOutput(os.Stdout)

func success(format string, args ...any) {
	fmt.Println(output.String(fmt.Sprintf(format, args...)).Foreground(output.Color("2")))
}

func fail(err error) error {
	fmt.Fprintln(os.Stderr, output.String("error: "+err.Error()).Foreground(output.Color("1")))
	return err
}

// loadScore reads and parses path, using its extension as the format hint.
func loadScore(path string) (*model.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hint := ingest.FormatAuto
	if strings.HasSuffix(path, ".mxl") {
		hint = ingest.FormatMXL
	}
	return ingest.Parse(data, hint)
}

func main() {
	root := &cobra.Command{
		Use:           "scorelib",
		Short:         "MusicXML to SVG, MIDI, and playback-map converter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var pageWidth float64
	var outPath string

	renderCmd := &cobra.Command{
		Use:   "render <score.(musicxml|mxl)>",
		Short: "Render a score to an SVG drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := loadScore(args[0])
			if err != nil {
				return fail(err)
			}
			svg := render.Render(score, pageWidth)
			if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
				return fail(err)
			}
			success("wrote %s", outPath)
			return nil
		},
	}
	renderCmd.Flags().Float64Var(&pageWidth, "page-width", 0, "page width in user-units (0 = default)")
	renderCmd.Flags().StringVarP(&outPath, "output", "o", "score.svg", "output file")

	var midiOut string
	var optionsJSON string
	var melodyChannel int
	var energy string
	var piano, bass, stringsTrack, drums bool
	var noMelody, noMetronome bool

	midiCmd := &cobra.Command{
		Use:   "midi <score.(musicxml|mxl)>",
		Short: "Generate a standard MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := midiwriter.ParseOptions([]byte(optionsJSON))
			if err != nil {
				return fail(fmt.Errorf("malformed --options: %w", err))
			}
			if optionsJSON == "" {
				opts.IncludeMelody = !noMelody
				opts.IncludeMetronome = !noMetronome
				opts.IncludePiano = piano
				opts.IncludeBass = bass
				opts.IncludeStrings = stringsTrack
				opts.IncludeDrums = drums
				opts.MelodyChannel = melodyChannel
				opts.Energy = midiwriter.Energy(energy)
			}
			score, err := loadScore(args[0])
			if err != nil {
				return fail(err)
			}
			midi, err := midiwriter.Build(score, opts)
			if err != nil {
				return fail(err)
			}
			if err := os.WriteFile(midiOut, midi, 0o644); err != nil {
				return fail(err)
			}
			success("wrote %s (%d bytes)", midiOut, len(midi))
			return nil
		},
	}
	midiCmd.Flags().StringVarP(&midiOut, "output", "o", "score.mid", "output file")
	midiCmd.Flags().StringVar(&optionsJSON, "options", "", "options as a JSON record (overrides the individual flags)")
	midiCmd.Flags().IntVar(&melodyChannel, "melody-channel", 0, "MIDI channel for the melody (0-15)")
	midiCmd.Flags().StringVar(&energy, "energy", "medium", "accompaniment energy: soft, medium, strong")
	midiCmd.Flags().BoolVar(&piano, "piano", false, "include the piano accompaniment track")
	midiCmd.Flags().BoolVar(&bass, "bass", false, "include the bass accompaniment track")
	midiCmd.Flags().BoolVar(&stringsTrack, "strings", false, "include the strings accompaniment track")
	midiCmd.Flags().BoolVar(&drums, "drums", false, "include the drum groove track")
	midiCmd.Flags().BoolVar(&noMelody, "no-melody", false, "omit the melody tracks")
	midiCmd.Flags().BoolVar(&noMetronome, "no-metronome", false, "omit the metronome track")

	var mapOut string
	var mapWidth float64
	playbackCmd := &cobra.Command{
		Use:   "playback-map <score.(musicxml|mxl)>",
		Short: "Emit the playback cursor map as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := loadScore(args[0])
			if err != nil {
				return fail(err)
			}
			pm := playback.Generate(score, mapWidth)
			body, err := pm.JSON()
			if err != nil {
				return fail(err)
			}
			if err := os.WriteFile(mapOut, body, 0o644); err != nil {
				return fail(err)
			}
			success("wrote %s (%d measures, %d timemap entries)", mapOut, len(pm.Measures), len(pm.Timemap))
			return nil
		},
	}
	playbackCmd.Flags().StringVarP(&mapOut, "output", "o", "playback.json", "output file")
	playbackCmd.Flags().Float64Var(&mapWidth, "page-width", 0, "page width in user-units (0 = default)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render/midi/playback-map HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := httpapi.LoadConfig()
			flush := httpapi.InitSentry(cfg)
			defer flush()
			r := httpapi.NewRouter(cfg)
			log.Printf("listening on :%s", cfg.Port)
			return r.Run(":" + cfg.Port)
		},
	}

	root.AddCommand(renderCmd, midiCmd, playbackCmd, serveCmd, exploreCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
