//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"forest-rails/internal/app"
	"forest-rails/internal/profile"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stdout, "[rails] ", log.LstdFlags|log.Lmicroseconds)
	host, err := cfg.Open(logger, time.Now())
	if err != nil {
		logger.Fatal(err)
	}
	defer func() {
		if err := host.Close(); err != nil {
			logger.Printf("close: %v", err)
		}
	}()

	game := app.New(host.World, cfg.Scale, cfg.HUDWidth, host.World.Seed())
	if host.Profile != nil {
		applyProfile(context.Background(), game, host.Profile, logger)
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("Forest Rails")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Print(err)
	}
}

// applyProfile picks up the selected shop cosmetics and shows the balance.
func applyProfile(ctx context.Context, game *app.Game, p *profile.Profile, logger *log.Logger) {
	if bg, err := p.Shop.Current(ctx, profile.CategoryBackground); err == nil {
		game.SetTheme(bg.Name)
	} else {
		logger.Printf("background: %v", err)
	}
	if skin, err := p.Shop.Current(ctx, profile.CategorySkin); err == nil {
		game.SetSkin(skin.Name)
	} else {
		logger.Printf("skin: %v", err)
	}
	if coins, err := p.Ledger.Balance(ctx); err == nil {
		game.SetFooter(fmt.Sprintf("%d coins", coins))
	}
}
