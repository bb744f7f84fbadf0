// Command pixc-raster converts a pixel cloud into a water raster product.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/water.raster/internal/config"
	"github.com/banshee-data/water.raster/internal/db"
	"github.com/banshee-data/water.raster/internal/fsutil"
	"github.com/banshee-data/water.raster/internal/geoloc"
	"github.com/banshee-data/water.raster/internal/monitoring"
	"github.com/banshee-data/water.raster/internal/pixc"
	"github.com/banshee-data/water.raster/internal/product"
	"github.com/banshee-data/water.raster/internal/raster"
	"github.com/banshee-data/water.raster/internal/timeutil"
	"github.com/banshee-data/water.raster/internal/version"
)

const usage = `Usage: pixc-raster [flags] <pixc.json[.gz]> <config.(json|rdf)> <out.json[.gz]>
       pixc-raster migrate <action> [-db FILE]

Flags:
`

type options struct {
	debug    bool
	verbose  bool
	ascDir   string
	png      string
	html     string
	channel  string
	dbPath   string
	listen   string
	workers  int
	showVers bool

	pixcPath   string
	configPath string
	outPath    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pixc-raster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.BoolVar(&o.debug, "debug", false, "Write the debug product (adds the classification channel)")
	fs.BoolVar(&o.verbose, "v", false, "Enable debug logging")
	fs.StringVar(&o.ascDir, "asc", "", "Directory to write ESRI ASCII grids of every channel")
	fs.StringVar(&o.png, "png", "", "Write a PNG quicklook of -channel to this file")
	fs.StringVar(&o.html, "html", "", "Write an HTML quicklook of -channel to this file")
	fs.StringVar(&o.channel, "channel", raster.ChannelWSE, "Channel rendered by -png and -html")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database to record the run in")
	fs.StringVar(&o.listen, "listen", "", "After processing, serve database debug routes on this address until interrupted (requires -db)")
	fs.IntVar(&o.workers, "workers", 0, "Aggregation workers (overrides the config when > 0)")
	fs.BoolVar(&o.showVers, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.showVers {
		return o, nil
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return nil, fmt.Errorf("expected 3 arguments, got %d", fs.NArg())
	}
	o.pixcPath, o.configPath, o.outPath = fs.Arg(0), fs.Arg(1), fs.Arg(2)
	if o.listen != "" && o.dbPath == "" {
		return nil, errors.New("-listen requires -db")
	}
	if o.workers < 0 {
		return nil, fmt.Errorf("-workers must be >= 0, got %d", o.workers)
	}
	return o, nil
}

// process runs the conversion described by o and returns the assembled
// product and, when -db is set, the stored run id.
func process(o *options, fsys fsutil.FileSystem, clock timeutil.Clock) (*product.Raster, string, error) {
	cfg, err := config.LoadRasterConfig(o.configPath)
	if err != nil {
		return nil, "", err
	}
	pc, err := pixc.LoadJSON(fsys, o.pixcPath)
	if err != nil {
		return nil, "", err
	}
	monitoring.Logf("[pixc-raster] loaded %d pixels from %s", pc.Len(), o.pixcPath)

	wcfg := raster.WorkerConfigFromRaster(cfg)
	if o.debug {
		wcfg = wcfg.WithDebug(true)
	}
	if o.workers > 0 {
		wcfg = wcfg.WithWorkers(o.workers)
	}
	refiner, err := geoloc.NewRefiner(cfg.GetImprovedGeolocationMethod())
	if err != nil {
		return nil, "", err
	}

	start := clock.Now()
	res, err := raster.NewWorker(*wcfg, refiner).Rasterize(pc)
	if err != nil {
		return nil, "", err
	}
	monitoring.Logf("[pixc-raster] rasterized %s in %v: %d populated cells", res.Grid, clock.Since(start), res.Populated)

	p := product.Assemble(res, pc.Meta, clock)
	if err := product.Save(fsys, o.outPath, p); err != nil {
		return nil, "", err
	}
	monitoring.Logf("[pixc-raster] wrote %s", o.outPath)

	if o.ascDir != "" {
		paths, err := product.ExportASCIIGrids(fsys, o.ascDir, p)
		if err != nil {
			return nil, "", err
		}
		monitoring.Logf("[pixc-raster] wrote %d ASCII grids to %s", len(paths), o.ascDir)
	}
	if o.png != "" {
		if err := writeQuicklook(fsys, o.png, func(w io.Writer) error { return product.WritePNG(w, p, o.channel) }); err != nil {
			return nil, "", err
		}
	}
	if o.html != "" {
		if err := writeQuicklook(fsys, o.html, func(w io.Writer) error { return product.WriteHTML(w, p, o.channel) }); err != nil {
			return nil, "", err
		}
	}

	if o.dbPath == "" {
		return p, "", nil
	}
	store, err := db.NewDB(o.dbPath)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()
	store.SetClock(clock)
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode config: %w", err)
	}
	id, err := store.SaveRaster(p, db.RunSource{
		SourcePath: o.pixcPath,
		ConfigJSON: string(cfgJSON),
		Populated:  res.Populated,
	})
	if err != nil {
		return nil, "", err
	}
	monitoring.Logf("[pixc-raster] recorded run %s in %s", id, o.dbPath)
	return p, id, nil
}

func writeQuicklook(fsys fsutil.FileSystem, path string, render func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serveDebug serves the database debug routes on addr until ctx is done.
func serveDebug(ctx context.Context, addr, dbPath string) error {
	store, err := db.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	mux := http.NewServeMux()
	store.AttachAdminRoutes(mux)
	server := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving debug routes on %s/debug/", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func migrateDBPath(args []string) (action []string, dbPath string, err error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&dbPath, "db", "raster.db", "SQLite database to migrate")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	return fs.Args(), dbPath, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "migrate" {
		action, dbPath, err := migrateDBPath(args[1:])
		if err != nil {
			return err
		}
		return db.RunMigrateCommand(action, dbPath)
	}

	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.showVers {
		fmt.Fprintln(stdout, "pixc-raster", version.String())
		return nil
	}
	monitoring.EnableDebug(o.verbose)

	if _, _, err := process(o, fsutil.OSFileSystem{}, timeutil.RealClock{}); err != nil {
		return err
	}
	if o.listen == "" {
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serveDebug(ctx, o.listen, o.dbPath)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("pixc-raster: %v", err)
	}
}
