// Command printestimate estimates, offline, how long a Klipper-style
// motion controller would take to execute a slicer-produced G-code file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"printestimate/internal/config"
	"printestimate/internal/dialect"
	"printestimate/internal/errs"
	"printestimate/internal/gcode"
	"printestimate/internal/kinematics"
	"printestimate/internal/report"
	"printestimate/internal/sequencer"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	fs := flag.NewFlagSet(cmdName, flag.ExitOnError)
	configFile := fs.String("config_file", "", "path to a JSON/JSON5 printer config file")
	moonrakerURL := fs.String("config_moonraker_url", "", "Moonraker base URL to fetch printer config from")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	format := fs.String("format", "text", "dump-config output format: text or yaml")
	fs.Parse(os.Args[2:])

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	args := fs.Args()

	var err error
	switch cmdName {
	case "estimate":
		err = runEstimate(args, *configFile, *moonrakerURL)
	case "post-process":
		err = runPostProcess(args, *configFile, *moonrakerURL)
	case "dump-moves":
		err = runDumpMoves(args, *configFile, *moonrakerURL)
	case "dump-config":
		err = runDumpConfig(*configFile, *moonrakerURL, *format)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("printestimate failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: printestimate <estimate|post-process|dump-moves|dump-config> [options] [files...]")
}

func loadLimits(configFile, moonrakerURL string) (*config.Result, error) {
	switch {
	case moonrakerURL != "":
		return config.LoadFromMoonraker(context.Background(), moonrakerURL)
	case configFile != "":
		return config.Load(configFile)
	default:
		log.Warn().Msg("no --config_file or --config_moonraker_url given, using built-in defaults")
		return config.Default(), nil
	}
}

func runDumpConfig(configFile, moonrakerURL, format string) error {
	res, err := loadLimits(configFile, moonrakerURL)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Warn().Err(res.Warning).Msg("config warning")
	}

	if format == "yaml" {
		out, err := config.MarshalYAML(res)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	lim := res.Limits
	fmt.Printf("max_velocity: %g\n", lim.MaxVelocity)
	fmt.Printf("max_accel: %g\n", lim.MaxAccel)
	fmt.Printf("max_accel_to_decel: %g\n", lim.MaxAccelToDecel)
	fmt.Printf("square_corner_velocity: %g\n", lim.SquareCornerVelocity)
	fmt.Printf("max_z_velocity: %g\n", lim.MaxZVelocity)
	fmt.Printf("max_z_accel: %g\n", lim.MaxZAccel)
	fmt.Printf("filament_area: %g\n", res.FilamentArea)
	for name, e := range lim.Extruders {
		fmt.Printf("extruder %s: max_velocity=%g max_accel=%g pressure_advance=%g smooth_time=%g\n",
			name, e.MaxVelocity, e.MaxAccel, e.PressureAdvance, e.SmoothTime)
	}
	return nil
}

func runEstimate(files []string, configFile, moonrakerURL string) error {
	if len(files) != 1 {
		return fmt.Errorf("estimate takes exactly one file")
	}
	res, err := loadLimits(configFile, moonrakerURL)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Warn().Err(res.Warning).Msg("config warning")
	}

	sequences, _, err := runFile(files[0], res, nil)
	if err != nil {
		return err
	}
	report.WriteSummary(os.Stdout, sequences)
	return nil
}

func runDumpMoves(files []string, configFile, moonrakerURL string) error {
	if len(files) != 1 {
		return fmt.Errorf("dump-moves takes exactly one file")
	}
	res, err := loadLimits(configFile, moonrakerURL)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Warn().Err(res.Warning).Msg("config warning")
	}

	var dumper *report.MoveDumper
	_, _, err = runFile(files[0], res, func(d *gcode.Driver) {
		dumper = report.NewMoveDumper(d.LineNo)
		d.OnMoveFinalized(dumper.Record)
	})
	if err != nil {
		return err
	}
	pct := report.NewCruisePercentiles(dumper.Records())
	log.Debug().
		Float64("p50_mm_s", pct.At(50)).
		Float64("p90_mm_s", pct.At(90)).
		Msg("cruise velocity distribution")
	return dumper.WriteCSV(os.Stdout)
}

func runPostProcess(files []string, configFile, moonrakerURL string) error {
	if len(files) == 0 {
		return fmt.Errorf("post-process takes at least one file")
	}
	res, err := loadLimits(configFile, moonrakerURL)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Warn().Err(res.Warning).Msg("config warning")
	}

	for _, path := range files {
		if err := postProcessOne(path, res); err != nil {
			return fmt.Errorf("post-processing %s: %w", path, err)
		}
	}
	return nil
}

func postProcessOne(path string, res *config.Result) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	// The planner finalizes moves lazily — a move emitted while processing
	// line N is commonly flushed while the driver is already on a later
	// line, or dumped wholesale at end-of-file. Crediting time to
	// d.LineNo() at finalization time would skew it onto whatever line
	// happened to trigger the flush, so attribute it to the move's own
	// SourceLine instead.
	elapsedAtLine := make([]float64, 0, len(lines))
	sequences, _, err := runLines(lines, res, func(d *gcode.Driver) {
		d.OnMoveFinalized(func(m *kinematics.Move) {
			for len(elapsedAtLine) < m.SourceLine {
				var prev float64
				if n := len(elapsedAtLine); n > 0 {
					prev = elapsedAtLine[n-1]
				}
				elapsedAtLine = append(elapsedAtLine, prev)
			}
			elapsedAtLine[m.SourceLine-1] += m.AccelTime + m.CruiseTime + m.DecelTime
		})
	})
	if err != nil {
		return err
	}
	for len(elapsedAtLine) < len(lines) {
		var prev float64
		if n := len(elapsedAtLine); n > 0 {
			prev = elapsedAtLine[n-1]
		}
		elapsedAtLine = append(elapsedAtLine, prev)
	}
	for i := 1; i < len(elapsedAtLine); i++ {
		if elapsedAtLine[i] < elapsedAtLine[i-1] {
			elapsedAtLine[i] = elapsedAtLine[i-1]
		}
	}

	totals := dialect.FromSequence(sequencer.Totals(sequences))
	totals.ElapsedAtLine = elapsedAtLine

	d := dialect.Detect(lines)
	if d == nil {
		log.Warn().Str("file", path).Msg("could not identify slicer dialect, leaving file unchanged")
		return nil
	}

	rewritten := d.Rewrite(lines, totals)
	return writeAtomic(path, rewritten)
}

func runFile(path string, res *config.Result, configure func(*gcode.Driver)) ([]*sequencer.Sequence, *gcode.Driver, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, nil, err
	}
	return runLines(lines, res, configure)
}

func runLines(lines []string, res *config.Result, configure func(*gcode.Driver)) ([]*sequencer.Sequence, *gcode.Driver, error) {
	seq := sequencer.New(res.FilamentArea)
	d := gcode.NewDriver(res.Limits, seq)
	if configure != nil {
		configure(d)
	}
	for _, line := range lines {
		if err := d.ProcessLine(line); err != nil {
			return nil, nil, err
		}
	}
	if err := d.Finish(); err != nil {
		return nil, nil, err
	}
	return seq.Sequences(d.LineNo()), d, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IoError{Op: "opening " + path, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &errs.IoError{Op: "reading " + path, Err: err}
	}
	return lines, nil
}

func writeAtomic(path string, lines []string) error {
	tmp := path + ".printestimate.tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &errs.IoError{Op: "creating " + tmp, Err: err}
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			f.Close()
			os.Remove(tmp)
			return &errs.IoError{Op: "writing " + tmp, Err: err}
		}
		if _, err := w.WriteString("\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return &errs.IoError{Op: "writing " + tmp, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &errs.IoError{Op: "flushing " + tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &errs.IoError{Op: "closing " + tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &errs.IoError{Op: "renaming " + tmp, Err: err}
	}
	return nil
}
