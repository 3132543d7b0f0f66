// Command ricochetcore is the CLI entry point: it loads an authored
// scene document, runs one frame of the reflection-geometry core
// against it, and either prints the result or serves it over HTTP -
// grounded on the teacher's parse-flags -> build-scene -> timed
// operation -> report flow, using urfave/cli/v2 subcommands in place
// of the teacher's flag package.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/internal/httpapi"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/internal/telemetry"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/engine"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/scene"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/trajectory"
)

func main() {
	app := &cli.App{
		Name:  "ricochetcore",
		Usage: "compute and serve reflection-geometry frames for an aiming tool",
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ricochetcore: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "compute a single frame from a scene file and print it as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scene", Required: true, Usage: "path to a scene YAML document"},
			&cli.BoolFlag{Name: "dev-log", Usage: "use the verbose development logger"},
		},
		Action: func(c *cli.Context) error {
			logger, err := telemetry.NewZapLogger(c.Bool("dev-log"))
			if err != nil {
				return err
			}

			results, elapsed, err := runScenario(c.String("scene"), logger)
			if err != nil {
				return err
			}
			logger.Printf("ricochetcore: frame computed in %v", elapsed)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
}

// runScenario loads a scene document, runs a single frame through the
// engine, and returns the results plus how long that took. It is
// factored out of runCommand's Action so the six literal end-to-end
// scenarios can be exercised directly in tests without shelling out to
// the built binary.
func runScenario(path string, logger telemetry.Logger) (engine.Results, time.Duration, error) {
	s, doc, err := scene.Load(path)
	if err != nil {
		return engine.Results{}, 0, err
	}

	e := engine.New(logger)
	e.SetScene(s)
	e.SetAvatar(geom.NewVector(doc.Avatar.X, doc.Avatar.Y))
	e.SetCursor(geom.NewVector(doc.Cursor.X, doc.Cursor.Y))
	e.SetPlan(doc.Plan)
	e.SetTraceParams(scenarioTraceParams(doc))

	start := time.Now()
	results, err := e.GetResults()
	if err != nil {
		return engine.Results{}, 0, err
	}
	return results, time.Since(start), nil
}

// scenarioTraceParams merges a scene document's optional trace: block
// over the trajectory package's defaults, the same way a scene author
// expects its trace tuning to apply.
func scenarioTraceParams(doc scene.SceneDocument) trajectory.TraceParams {
	defaults := trajectory.DefaultTraceParams()
	mr, md, cr := doc.Trace.TraceParams(defaults.MaxReflections, defaults.MaxDistance, defaults.CursorRadius)
	return trajectory.TraceParams{MaxReflections: mr, MaxDistance: md, CursorRadius: cr}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve reflection-geometry frames over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP port to listen on"},
			&cli.StringFlag{Name: "scene", Usage: "optional scene YAML document to preload"},
			&cli.BoolFlag{Name: "dev-log", Usage: "use the verbose development logger"},
		},
		Action: func(c *cli.Context) error {
			logger, err := telemetry.NewZapLogger(c.Bool("dev-log"))
			if err != nil {
				return err
			}

			e := engine.New(logger)
			if path := c.String("scene"); path != "" {
				s, doc, err := scene.Load(path)
				if err != nil {
					return err
				}
				e.SetScene(s)
				e.SetAvatar(geom.NewVector(doc.Avatar.X, doc.Avatar.Y))
				e.SetCursor(geom.NewVector(doc.Cursor.X, doc.Cursor.Y))
				e.SetPlan(doc.Plan)
				e.SetTraceParams(scenarioTraceParams(doc))
			}

			server := httpapi.NewServer(c.Int("port"), e, logger)
			return server.Start()
		},
	}
}
