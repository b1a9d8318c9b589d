package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/esimov/gamebridge"
	"github.com/esimov/gamebridge/ebitenhost"
	"github.com/esimov/gamebridge/maze"
	"github.com/esimov/gamebridge/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌┬┐┌─┐┌─┐┌─┐
│││├─┤┌─┘├┤
┴ ┴┴ ┴└─┘└─┘

Maze game running on the gamebridge event bridge.
    Version: %s

`

// maxWorkers sets the maximum number of concurrently running snapshots.
const maxWorkers = 20

// Version indicates the current build version.
var Version string

var (
	// Flags
	title       = flag.String("title", "Maze", "Window title")
	width       = flag.Int("width", 1200, "Window width")
	height      = flag.Int("height", 825, "Window height")
	fps         = flag.Int("fps", 30, "Frames per second")
	host        = flag.String("host", gamebridge.HostGio, "Host toolkit: gio or ebiten")
	nick        = flag.String("nick", "player", "Player nick name")
	colors      = flag.String("colors", maze.DefaultColors, "Player stroke and fill colours")
	seed        = flag.Int64("seed", time.Now().UnixNano(), "Maze generator seed")
	idle        = flag.Duration("idle", 30*time.Second, "Pause the game after this long without input")
	capture     = flag.String("capture", gamebridge.SourceTest, "Avatar capture source: test, an image file or an URL")
	captureDir  = flag.String("capdir", "", "Directory of the intermediate snapshot files")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of concurrent snapshots")
	cascade     = flag.String("cc", "", "Cascade classifier used to detect faces on snapshots")
	logLevel    = flag.String("log", "warn", "Log level: debug, info, warn or error")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

// spinner is shown while the game window is open.
var spinner *utils.Spinner

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		return
	}

	utils.EnableColor(term.IsTerminal(int(os.Stderr.Fd())))

	level, err := parseLevel(*logLevel)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	gamebridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Limit the concurrently running snapshots to maxWorkers.
	if *workers <= 0 || *workers > maxWorkers {
		*workers = utils.Min(runtime.NumCPU(), maxWorkers)
	}

	b, err := gamebridge.New(gamebridge.Config{
		Title:          *title,
		Size:           image.Pt(*width, *height),
		FPS:            *fps,
		Host:           *host,
		CaptureDir:     *captureDir,
		CaptureWorkers: *workers,
		CaptureSource:  *capture,
		Cascade:        *cascade,
	})
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to start the game: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	game, err := maze.NewGame(maze.Options{
		Nick:          *nick,
		Colors:        *colors,
		Seed:          *seed,
		IdleTimeout:   *idle,
		CaptureSource: *capture,
	})
	if err != nil {
		b.Close()
		log.Fatalf(
			utils.DecorateText("Invalid player settings: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ MAZE", utils.StatusMessage),
		utils.DecorateText("game is running...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C, restore the cursor visibility and let the game wind down.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		b.Stop()
	}()

	now := time.Now()
	spinner.Start()

	if strings.EqualFold(b.Config().Host, gamebridge.HostEbiten) {
		err := ebitenhost.New(b).Run(game.Run)
		os.Exit(finish(b, err, now))
	}

	go func() {
		err := gamebridge.NewCanvas(b).Run(game.Run)
		os.Exit(finish(b, err, now))
	}()
	app.Main()
}

// finish closes the bridge, prints the outcome of the session and returns
// the process exit code.
func finish(b *gamebridge.Bridge, err error, start time.Time) int {
	if cerr := b.Close(); err == nil {
		err = cerr
	}

	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ MAZE", utils.StatusMessage),
		utils.DecorateText("game is running... ✔", utils.DefaultMessage))
	spinner.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText("\nThe game stopped with an error", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return 1
	}
	fmt.Fprintf(os.Stderr, "\nSession time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(start)), utils.SuccessMessage))
	return 0
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
