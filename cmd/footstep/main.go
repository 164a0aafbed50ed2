// Command footstep samples a character animation and appends footstep and
// foley events at the frames where each foot plants.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/banshee-data/footfall/internal/animevent"
	"github.com/banshee-data/footfall/internal/character"
	"github.com/banshee-data/footfall/internal/config"
	"github.com/banshee-data/footfall/internal/db"
	"github.com/banshee-data/footfall/internal/footstep"
	"github.com/banshee-data/footfall/internal/fsutil"
	"github.com/banshee-data/footfall/internal/heightplot"
	"github.com/banshee-data/footfall/internal/monitoring"
	"github.com/banshee-data/footfall/internal/sampler"
	"github.com/banshee-data/footfall/internal/security"
	"github.com/banshee-data/footfall/internal/version"
)

type options struct {
	characterPath string
	animation     string
	configPath    string
	dbPath        string
	plotDir       string
	foleys        string // "", "true" or "false"
	leftJoint     string
	rightJoint    string
}

func main() {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.characterPath, "character", "", "path to the character definition (.json)")
	flag.StringVar(&opts.animation, "animation", "", "animation name or path to generate events for")
	flag.StringVar(&opts.configPath, "config", "", "generator tuning config (.json); built-in defaults when empty")
	flag.StringVar(&opts.dbPath, "db", "", "sqlite db to store the run and the clip's events in; each run appends to the stored events, so reruns accumulate")
	flag.StringVar(&opts.plotDir, "plot-dir", "", "directory for foot height plots (png + html)")
	flag.StringVar(&opts.foleys, "foleys", "", "override generate_foleys (true|false)")
	flag.StringVar(&opts.leftJoint, "left-joint", "", "override the left foot joint name")
	flag.StringVar(&opts.rightJoint, "right-joint", "", "override the right foot joint name")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}
	if opts.characterPath == "" || opts.animation == "" {
		log.Fatalf("-character and -animation must be provided")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fsutil.OSFileSystem{}, opts, os.Stdout); err != nil {
		log.Fatalf("footstep: %v", err)
	}
}

func loadParameters(opts options) (footstep.Parameters, error) {
	cfg := config.DefaultGeneratorConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadGeneratorConfig(opts.configPath)
		if err != nil {
			return footstep.Parameters{}, err
		}
		cfg = loaded
	}

	params := footstep.ParametersFromConfig(cfg)
	switch strings.ToLower(opts.foleys) {
	case "":
	case "true", "1", "yes":
		params.GenerateFoleys = true
	case "false", "0", "no":
		params.GenerateFoleys = false
	default:
		return footstep.Parameters{}, fmt.Errorf("invalid -foleys value %q", opts.foleys)
	}
	if opts.leftJoint != "" {
		params.SetLeftFootJoint(opts.leftJoint)
	}
	if opts.rightJoint != "" {
		params.SetRightFootJoint(opts.rightJoint)
	}
	return params, nil
}

func run(ctx context.Context, fsys fsutil.FileSystem, opts options, out io.Writer) error {
	params, err := loadParameters(opts)
	if err != nil {
		return err
	}

	if !fsys.Exists(opts.characterPath) {
		return fmt.Errorf("character definition %s not found", opts.characterPath)
	}
	c, err := character.Load(fsys, opts.characterPath)
	if err != nil {
		return fmt.Errorf("load character: %w", err)
	}

	content := &animevent.Content{Name: opts.animation}
	if set := c.Animations(); set != nil {
		if clip, ok := set.Get(opts.animation); ok {
			content.Name = clip.Name
			content.Path = clip.Path
		}
	}

	var store *db.EventStore
	if opts.dbPath != "" {
		dbConn, err := db.NewDB(opts.dbPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer dbConn.Close()
		store = dbConn.Events()

		// start from what was saved for this clip last time
		existing, err := store.ListAnimationEvents(storeKey(content))
		if err != nil {
			return err
		}
		content.Events = existing
		if len(existing) > 0 {
			monitoring.Logf("%q: appending to %d stored events", storeKey(content), len(existing))
		}

		if unknown := eventRegistry(params).Unknown(existing); len(unknown) > 0 {
			monitoring.Logf("%q already carries custom event types %v", storeKey(content), unknown)
		}
	}

	res, err := footstep.GenerateFootsteps(ctx, content, c, opts.animation, params, sampler.NewClipSampler())
	if err != nil {
		if set := c.Animations(); set != nil && errors.Is(err, sampler.ErrAnimationNotFound) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(set.Names(), ", "))
		}
		return err
	}

	if store != nil {
		if err := persist(store, c.Name, content, res, params); err != nil {
			return err
		}
	}

	if opts.plotDir != "" {
		if err := writePlots(fsys, opts.plotDir, content.Name, res); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(content)
}

// eventRegistry knows the built-in types plus every type the templates of
// this run can emit.
func eventRegistry(params footstep.Parameters) *animevent.Registry {
	registry := animevent.DefaultRegistry()
	for _, side := range []footstep.FootTemplates{params.Left, params.Right} {
		for _, e := range []animevent.Event{side.Footstep, side.Foley, side.Shuffle, side.ShuffleFoley} {
			if e.IsConfigured() {
				registry.Add(e.Type)
			}
		}
	}
	return registry
}

func storeKey(content *animevent.Content) string {
	if content.Path != "" {
		return content.Path
	}
	return content.Name
}

func persist(store *db.EventStore, characterName string, content *animevent.Content, res *footstep.Result, params footstep.Parameters) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	run := &db.Run{
		CharacterName: characterName,
		AnimationName: content.Name,
		AnimationPath: content.Path,
		LengthSeconds: res.LengthSeconds,
		FrameCount:    res.FrameCount,
		EventCount:    len(res.Events),
		ParamsJSON:    paramsJSON,
	}
	if err := store.InsertRun(run); err != nil {
		return err
	}

	changed, err := store.SaveAnimationEvents(storeKey(content), content.Events)
	if err != nil {
		return err
	}
	monitoring.Logf("run %s: %d events for %q (saved=%v)", run.RunID, len(content.Events), storeKey(content), changed)
	return nil
}

func writePlots(fsys fsutil.FileSystem, dir, name string, res *footstep.Result) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	base := filepath.Join(dir, security.SanitizeFilename(name)+"_heights")

	var png bytes.Buffer
	if err := heightplot.WritePNG(&png, res, name); err != nil {
		if errors.Is(err, heightplot.ErrNoSeries) {
			monitoring.Warnf("no foot was sampled for %q, skipping plots", name)
			return nil
		}
		return err
	}
	var html bytes.Buffer
	if err := heightplot.RenderHTML(&html, res, name); err != nil {
		return err
	}

	if err := fsys.WriteFile(base+".png", png.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s.png: %w", base, err)
	}
	if err := fsys.WriteFile(base+".html", html.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s.html: %w", base, err)
	}
	return nil
}
