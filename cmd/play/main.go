// cmd/play/main.go
//
// Terminal client: plays today's puzzle against a Rayonlar server.
//
//	play -server http://localhost:8000 -lang en
//
// Each input line is a guess. Commands:
//
//	?        reveal one region (max 3 per game)
//	??       reveal every region
//	/s text  search district names
//	/q       quit
//
// Colours are used only when stdout is a terminal.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/rayonlar/internal/client"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/logger"
)

func main() {
	server := flag.String("server", envOrDefault("RAYONLAR_URL", "http://localhost:8000"), "server base URL")
	lang := flag.String("lang", envOrDefault("RAYONLAR_LANG", i18n.DefaultLang), "message language (az, en)")
	flag.Parse()

	// logs go to stderr so they never interleave with the board
	opts := logger.FromEnv()
	opts.Out = os.Stderr
	if opts.Level == "" {
		opts.Level = "warn"
	}
	closeLog, err := logger.Setup(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("set up logging")
	}
	defer closeLog()
	color.Enable = term.IsTerminal(int(os.Stdout.Fd()))

	msgs, err := i18n.Load(*lang)
	if err != nil {
		log.Fatal().Err(err).Msg("load messages")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*server)
	regs, err := c.Regions(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("server", *server).Msg("fetch regions")
	}
	ids := make([]string, len(regs))
	for i, r := range regs {
		ids[i] = r.ID
	}

	a := newApp(os.Stdout, c, ids, msgs, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err := a.run(ctx, os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
