package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leonelquinteros/gotext"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/brain"
	"github.com/Garsondee/void-tactics/internal/catalog"
	"github.com/Garsondee/void-tactics/internal/game"
	"github.com/Garsondee/void-tactics/internal/ship"
	"github.com/Garsondee/void-tactics/internal/spectate"
)

func main() {
	catalogPath := flag.String("catalog", "", "ship and weapon catalog YAML (default: built in)")
	scenarioPath := flag.String("scenario", "", "scenario YAML (default: built-in skirmish)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for placement, combat rolls and AI")
	brainKind := flag.String("brain", "hunter", "AI brain: random or hunter")
	spectateAddr := flag.String("spectate", "", "serve spectator websocket on this address, e.g. :8080")
	locales := flag.String("locales", "locales", "gettext locale directory")
	lang := flag.String("lang", "", "message language, e.g. de_DE (default: untranslated)")
	flag.Parse()

	if *lang != "" {
		gotext.Configure(*locales, *lang, "void-tactics")
	}

	cat := catalog.Default()
	if *catalogPath != "" {
		var err error
		if cat, err = catalog.Load(*catalogPath); err != nil {
			log.Fatal(err)
		}
	}
	sc := catalog.DefaultScenario()
	if *scenarioPath != "" {
		var err error
		if sc, err = catalog.LoadScenario(*scenarioPath); err != nil {
			log.Fatal(err)
		}
	}
	setup, err := catalog.Assemble(cat, sc, *seed)
	if err != nil {
		log.Fatal(err)
	}

	var brainErr error
	brains := setup.Brains(func(p *ship.Player) battle.Brain {
		br, err := brain.New(*brainKind, *seed)
		if err != nil {
			brainErr = err
		}
		return br
	})
	if brainErr != nil {
		log.Fatal(brainErr)
	}
	b := battle.New(setup.Field, setup.Players, battle.Config{Brains: brains, Seed: *seed})

	var opts game.Options
	var srv *http.Server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *spectateAddr != "" {
		hub := spectate.NewHub()
		go hub.Run(ctx)
		hub.Attach(b)
		opts.Spectators = hub.Clients

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWs)
		srv = &http.Server{
			Addr:              *spectateAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("spectate: %v", err)
			}
		}()
		log.Printf("spectators: ws://%s/ws", *spectateAddr)
	}

	g := game.New(b, opts)
	w, h := g.Size()
	ebiten.SetWindowTitle("Void Tactics: " + setup.Name)
	ebiten.SetWindowSize(w, h)
	runErr := ebiten.RunGame(g)

	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("spectate shutdown: %v", err)
		}
		stop()
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
