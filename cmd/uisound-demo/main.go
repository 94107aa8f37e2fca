package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/uisound"
)

const (
	frameMs       = 33
	statusHoldMs  = 1500
	hapticFlashMs = 300
	gradientSteps = 8
	scaleNotes    = 8
)

var (
	soundsFlag = flag.String("sounds", "", "Base path or URL for pack assets (overrides UISOUND_BASE_PATH)")
	packFlag   = flag.String("pack", "", "Path to a sound pack manifest, uses a built-in synth pack when empty")
	logFlag    = flag.String("log", "", "Write diagnostics to this file (discarded otherwise, the screen owns the terminal)")
)

// Built-in pack so the demo runs without assets on disk. The synth
// fallback swallows the missing files.
const builtinManifest = `{
	"name": "demo",
	"version": "1",
	"formats": {"preferred": ["wav", "mp3"], "fallback": "synth"},
	"sounds": {
		"ui": {
			"click": {"default": "click_001", "variants": ["click_001", "click_002"]},
			"hover": {"default": "hover", "volume": 0.6},
			"confirm": {"default": "confirm", "variants": ["confirm_a", "confirm_b", "confirm_c"]},
			"error": {"default": "error", "pitch": -3}
		}
	},
	"haptics": {"click": "light", "confirm": "medium", "error": "heavy"}
}`

type keyRow struct {
	label string
	keys  string
}

type App struct {
	screen        tcell.Screen
	width, height int

	engine *uisound.Engine
	router *uisound.Router
	synth  *uisound.Synthesizer

	gradient []uisound.Trigger
	scale    []uisound.Trigger

	volume float64
	muted  bool

	lastAction string
	actionTime time.Time
	hapticLen  time.Duration
	hapticTime time.Time
}

// screenVibrator surfaces haptic requests as a visual pulse. All calls
// arrive on the input goroutine, so no locking.
type screenVibrator struct {
	app *App
}

func (v *screenVibrator) Vibrate(pattern []time.Duration) error {
	var total time.Duration
	for _, d := range pattern {
		total += d
	}
	v.app.hapticLen = total
	v.app.hapticTime = time.Now()
	return nil
}

func NewApp(cfg *uisound.Config, m *uisound.Manifest) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	eng := uisound.NewEngine(cfg)
	router := uisound.NewRouter(eng, cfg)

	a := &App{
		screen: screen,
		engine: eng,
		router: router,
		synth:  uisound.NewSynthesizer(eng),
		volume: cfg.MasterVolume,
	}
	a.width, a.height = screen.Size()

	router.SetVibrator(&screenVibrator{app: a})
	if err := router.LoadPack(context.Background(), "", m, nil); err != nil {
		log.Printf("preload: %v", err)
	}

	if pack, ok := router.Pack(router.ActivePack()); ok {
		a.gradient = pack.CreateGradient("ui.click", gradientSteps, uisound.GradientSpec{
			Type:  uisound.GradientPitch,
			Range: 12,
		})
		a.scale = pack.CreateHarmonicSet("ui.click", scaleNotes, "pentatonic")
	}

	return a, nil
}

func (a *App) note(format string, args ...any) {
	a.lastAction = fmt.Sprintf(format, args...)
	a.actionTime = time.Now()
}

func (a *App) playPath(path string, variant bool) {
	ctx := context.Background()
	var err error
	if variant {
		_, err = a.router.PlayVariant(ctx, path, nil)
	} else {
		_, err = a.router.Play(ctx, path, nil)
	}
	if err != nil {
		a.note("%s failed: %v", path, err)
		return
	}
	a.note("played %s", path)
}

func (a *App) playPreset(name string, p uisound.Preset) {
	if err := a.synth.PlayPreset(p); err != nil {
		a.note("%s blocked: %v", name, err)
		return
	}
	a.note("synth %s", name)
}

func (a *App) fire(triggers []uisound.Trigger, idx int, label string) {
	if idx < 0 || idx >= len(triggers) {
		return
	}
	if err := triggers[idx](context.Background()); err != nil {
		a.note("%s %d failed: %v", label, idx+1, err)
		return
	}
	a.note("%s step %d/%d", label, idx+1, len(triggers))
}

func (a *App) adjustVolume(delta float64) {
	a.volume += delta
	if a.volume < 0 {
		a.volume = 0
	}
	if a.volume > 1 {
		a.volume = 1
	}
	a.engine.SetMasterVolume(a.volume)
	a.note("volume %d%%", int(a.volume*100))
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			if err := a.engine.Start(); err != nil {
				a.note("start failed: %v", err)
			} else {
				a.note("audio started")
			}
			return true
		case tcell.KeyRune:
			a.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
	}

	return true
}

func (a *App) handleRune(r rune) {
	switch r {
	case '1':
		a.playPreset("tap", uisound.PresetTap())
	case '2':
		a.playPreset("blip", uisound.PresetBlip())
	case '3':
		a.playPreset("chime", uisound.PresetChime())
	case '4':
		a.playPreset("thud", uisound.PresetThud())

	case 'z':
		a.playPath("ui.click", false)
		a.router.TriggerHaptic("click")
	case 'x':
		a.playPath("ui.hover", false)
	case 'c':
		a.playPath("ui.confirm", true)
		a.router.TriggerHaptic("confirm")
	case 'v':
		a.playPath("ui.error", false)
		a.router.TriggerHaptic("error")

	case 'm':
		a.muted = !a.muted
		a.engine.SetMuted(a.muted)
		if a.muted {
			a.note("muted")
		} else {
			a.note("unmuted")
		}
	case '[':
		a.adjustVolume(-0.1)
	case ']':
		a.adjustVolume(0.1)
	case 'p':
		if a.engine.State() == uisound.EngineRunning {
			a.engine.Suspend()
			a.note("suspended")
		} else if err := a.engine.Resume(); err != nil {
			a.note("resume failed: %v", err)
		} else {
			a.note("resumed")
		}
	case 'C':
		a.router.Clear()
		a.note("cache cleared")

	default:
		if idx := indexOf("qwertyui", r); idx >= 0 {
			a.fire(a.gradient, idx, "gradient")
		} else if idx := indexOf("asdfghjk", r); idx >= 0 {
			a.fire(a.scale, idx, "scale")
		}
	}
}

func indexOf(keys string, r rune) int {
	for i, k := range keys {
		if k == r {
			return i
		}
	}
	return -1
}

func (a *App) stateLabel() string {
	switch a.engine.State() {
	case uisound.EngineRunning:
		return "running"
	case uisound.EngineClosed:
		return "closed"
	default:
		return "suspended (Enter to start)"
	}
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (a *App) draw() {
	a.screen.Clear()

	header := tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	plain := tcell.StyleDefault
	warn := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	a.text(1, 0, "UISOUND DEMO", header)
	state := fmt.Sprintf("engine: %s  volume: %d%%  pack: %s",
		a.stateLabel(), int(a.volume*100), a.router.ActivePack())
	if a.muted {
		state += "  [muted]"
	}
	a.text(1, 1, state, dim)

	rows := []keyRow{
		{"Presets ", "1 tap  2 blip  3 chime  4 thud"},
		{"Pack    ", "z click  x hover  c confirm  v error"},
		{"Gradient", "q w e r t y u i   (pitch ramp over an octave)"},
		{"Scale   ", "a s d f g h j k   (pentatonic)"},
		{"Control ", "Enter start  p pause  m mute  [ ] volume  C clear cache  Esc quit"},
	}
	for i, row := range rows {
		a.text(1, 3+i, row.label, warn)
		a.text(10, 3+i, row.keys, plain)
	}

	now := time.Now()
	if a.lastAction != "" && now.Sub(a.actionTime).Milliseconds() < statusHoldMs {
		a.text(1, 9, "> "+a.lastAction, plain)
	}
	if a.hapticLen > 0 && now.Sub(a.hapticTime).Milliseconds() < hapticFlashMs {
		bars := int(a.hapticLen / (10 * time.Millisecond))
		line := fmt.Sprintf("haptic %dms ", a.hapticLen.Milliseconds())
		for i := 0; i < bars; i++ {
			line += "█"
		}
		a.text(1, 10, line, warn)
	}

	a.screen.Show()
}

func (a *App) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *App) cleanup() {
	a.engine.Close()
	a.screen.Fini()
}

func loadManifest() (*uisound.Manifest, error) {
	if *packFlag != "" {
		return uisound.LoadManifestFile(*packFlag)
	}
	return uisound.ParseManifest([]byte(builtinManifest))
}

func main() {
	flag.Parse()

	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := uisound.LoadConfig()
	if *soundsFlag != "" {
		cfg.BasePath = *soundsFlag
	}
	// Model the browser autoplay gate: no device until an explicit
	// gesture (Enter) starts the engine.
	cfg.AutoStart = false

	m, err := loadManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load manifest: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApp(cfg, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}
