// Command daycurve prints the lighting model over one game day as CSV.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/saaga0h/moonlight/pkg/climate"
	"github.com/saaga0h/moonlight/pkg/colorspace"
	"github.com/saaga0h/moonlight/pkg/moonlight"
	"github.com/saaga0h/moonlight/pkg/temporal"
)

type options struct {
	climateFile string
	climateName string
	daysPassed  float64
	stepMinutes int
	sunColor    string
	startHour   float64
}

func main() {
	opts := options{}
	fs := pflag.NewFlagSet("daycurve", pflag.ExitOnError)
	fs.StringVar(&opts.climateFile, "climate-file", "", "YAML climate table (built-in table when empty)")
	fs.StringVar(&opts.climateName, "climate", "wasteland", "Climate to evaluate")
	fs.Float64Var(&opts.daysPassed, "days-passed", temporal.DefaultDaysPassed, "Elapsed game days at the start of the curve")
	fs.IntVar(&opts.stepMinutes, "step-minutes", 30, "Game minutes between samples")
	fs.StringVar(&opts.sunColor, "sun-color", "", "Override the climate sun colour (#rrggbb)")
	fs.Float64Var(&opts.startHour, "start-hour", 0, "Game hour of the first sample")
	fs.Parse(os.Args[1:])

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "daycurve: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	if opts.stepMinutes <= 0 {
		return fmt.Errorf("step must be positive")
	}
	if !(opts.startHour >= 0 && opts.startHour < 24) {
		return fmt.Errorf("start hour %v out of range [0, 24)", opts.startHour)
	}

	table := climate.Default()
	if opts.climateFile != "" {
		var err error
		if table, err = climate.LoadTable(opts.climateFile); err != nil {
			return err
		}
	}

	c, err := table.Get(opts.climateName)
	if err != nil {
		return err
	}

	sun := c.SunColor.RGB
	if opts.sunColor != "" {
		if sun, err = colorspace.ParseHex(opts.sunColor); err != nil {
			return err
		}
	}

	w := csv.NewWriter(out)
	w.Write([]string{"game_hour", "days_passed", "period", "multiplier", "moon_visibility", "phase", "sun_hex"})

	o := moonlight.NewOrchestrator(nil)
	samples := 24 * 60 / opts.stepMinutes
	for i := 0; i <= samples; i++ {
		elapsed := float64(i*opts.stepMinutes) / 60
		hour := math.Mod(opts.startHour+elapsed, 24)
		days := opts.daysPassed + elapsed/24

		frame := o.Compute(moonlight.FrameInput{
			GameHour:    hour,
			Window:      c.Window,
			PhaseLength: c.PhaseLength,
			DaysPassed:  days,
			SunColor:    sun,
		})

		w.Write([]string{
			formatFloat(hour),
			formatFloat(days),
			frame.Period.String(),
			formatFloat(frame.Multiplier),
			formatFloat(frame.MoonVisibility),
			formatFloat(frame.Phase),
			frame.SunColor.Hex(),
		})
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
