package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/yhkl-dev/navisonic/config"
	"github.com/yhkl-dev/navisonic/domain"
	"github.com/yhkl-dev/navisonic/library"
	"github.com/yhkl-dev/navisonic/session"
	"github.com/yhkl-dev/navisonic/storage"
	"github.com/yhkl-dev/navisonic/subsonic"
)

const usage = `usage: navisonic [flags] <command> [args]

commands:
  login <server> <username> <password>   sign in (--remember to persist)
  logout                                 forget the stored session
  status                                 verify the stored session
  genres | artists | random | favourites | playlists | radio | radio-queue | podcasts
  albums <sort> [size] [offset]          sort: a-z, recently-added, recently-played, most-played, random
  genre-albums <genre> [size] [offset]
  genre-tracks <genre> [size] [offset]
  artist <id> | album <id> | playlist <id> | podcast <id>
  search <query>
  create-playlist <name> | delete-playlist <id> | rename-playlist <id> <name>
  playlist-add <id> <track-id>... | playlist-remove <id> <index>
  star <track|album|artist> <id> | unstar <track|album|artist> <id>
  add-radio <title> <url> | delete-radio <id>
  refresh-podcasts | scan | scrobble <id> | download-url <id>

flags:
`

type app struct {
	sess *session.Store
	lib  library.Library
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	configFile := pflag.StringP("config", "c", "", "path to config.toml")
	debug := pflag.Bool("debug", false, "enable debug logging")
	remember := pflag.Bool("remember", false, "persist credentials on login")
	ephemeral := pflag.Bool("ephemeral", false, "keep the session in memory only")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	setupLogging(cfg.Log.Level)

	if pflag.NArg() == 0 {
		pflag.Usage()
		return 2
	}

	var kv storage.Store
	if *ephemeral {
		kv = storage.NewMemory()
	} else {
		db := storage.NewSQLite(cfg.Storage.Path)
		if err := db.Open(); err != nil {
			log.Error().Err(err).Msg("Failed to open session storage")
			return 1
		}
		defer db.Close()
		kv = db
	}

	client := subsonic.NewClient(
		subsonic.WithClientID(cfg.Client.ID),
		subsonic.WithAPIVersion(cfg.Client.APIVersion),
	)
	sess, err := session.New(kv, client, session.WithPinnedServer(cfg.Server.URL))
	if err != nil {
		log.Error().Err(err).Msg("Failed to restore session")
		return 1
	}
	a := &app{sess: sess, lib: library.NewSubsonicLibrary(client, sess)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, cfg, *remember, pflag.Args()); err != nil {
		log.Error().Err(err).Str("command", pflag.Arg(0)).Msg("Command failed")
		return 1
	}
	return 0
}

func (a *app) run(ctx context.Context, cfg *config.Config, remember bool, args []string) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "login":
		if len(args) != 3 {
			return errUsage(cmd)
		}
		return a.sess.LoginWithPassword(ctx, args[0], args[1], args[2], remember)
	case "logout":
		return a.sess.Logout()
	case "status":
		return printJSON(map[string]any{"authenticated": a.login(ctx, cfg, remember)})
	case "download-url":
		if len(args) != 1 {
			return errUsage(cmd)
		}
		fmt.Println(a.lib.DownloadURL(args[0]))
		return nil
	}

	if !a.login(ctx, cfg, remember) {
		return errors.New("not authenticated: run login first")
	}

	result, err := a.dispatch(ctx, cmd, args)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return printJSON(result)
}

// login tries the stored session first, then the password from the config file.
func (a *app) login(ctx context.Context, cfg *config.Config, remember bool) bool {
	if a.sess.AutoLogin(ctx) {
		return true
	}
	if !cfg.HasLogin() {
		return false
	}
	err := a.sess.LoginWithPassword(ctx, cfg.Server.URL, cfg.Server.Username, cfg.Server.Password, remember)
	if err != nil {
		log.Warn().Err(err).Msg("Login from config failed")
		return false
	}
	return true
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) (any, error) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	num := func(i, def int) int {
		if n, err := strconv.Atoi(arg(i)); err == nil {
			return n
		}
		return def
	}
	need := func(n int) error {
		if len(args) < n {
			return errUsage(cmd)
		}
		return nil
	}

	switch cmd {
	case "genres":
		return a.lib.GetGenres(ctx)
	case "genre-albums":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetAlbumsByGenre(ctx, arg(0), num(1, 50), num(2, 0))
	case "genre-tracks":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetTracksByGenre(ctx, arg(0), num(1, 50), num(2, 0))
	case "artists":
		return a.lib.GetArtists(ctx)
	case "albums":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetAlbums(ctx, library.AlbumSort(arg(0)), num(1, 50), num(2, 0))
	case "artist":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetArtistDetails(ctx, arg(0))
	case "album":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetAlbumDetails(ctx, arg(0))
	case "playlists":
		return a.lib.GetPlaylists(ctx)
	case "playlist":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetPlaylist(ctx, arg(0))
	case "create-playlist":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.CreatePlaylist(ctx, arg(0))
	case "rename-playlist":
		if err := need(2); err != nil {
			return nil, err
		}
		return nil, a.lib.EditPlaylist(ctx, arg(0), arg(1))
	case "delete-playlist":
		if err := need(1); err != nil {
			return nil, err
		}
		return nil, a.lib.DeletePlaylist(ctx, arg(0))
	case "playlist-add":
		if err := need(2); err != nil {
			return nil, err
		}
		return nil, a.lib.AddToPlaylist(ctx, arg(0), args[1:]...)
	case "playlist-remove":
		if err := need(2); err != nil {
			return nil, err
		}
		index, err := strconv.Atoi(arg(1))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", arg(1), err)
		}
		return nil, a.lib.RemoveFromPlaylist(ctx, arg(0), index)
	case "random":
		return a.lib.GetRandomSongs(ctx)
	case "favourites":
		return a.lib.GetFavourites(ctx)
	case "star", "unstar":
		if err := need(2); err != nil {
			return nil, err
		}
		if cmd == "star" {
			return nil, a.lib.AddFavourite(ctx, arg(1), library.Kind(arg(0)))
		}
		return nil, a.lib.RemoveFavourite(ctx, arg(1), library.Kind(arg(0)))
	case "search":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.Search(ctx, arg(0))
	case "radio":
		return a.lib.GetRadioStations(ctx)
	case "radio-queue":
		stations, err := a.lib.GetRadioStations(ctx)
		if err != nil {
			return nil, err
		}
		return radioQueue(stations), nil
	case "add-radio":
		if err := need(2); err != nil {
			return nil, err
		}
		return a.lib.AddRadioStation(ctx, arg(0), arg(1))
	case "delete-radio":
		if err := need(1); err != nil {
			return nil, err
		}
		return nil, a.lib.DeleteRadioStation(ctx, arg(0))
	case "podcasts":
		return a.lib.GetPodcasts(ctx)
	case "podcast":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.lib.GetPodcast(ctx, arg(0))
	case "refresh-podcasts":
		return nil, a.lib.RefreshPodcasts(ctx)
	case "scan":
		return nil, a.lib.Scan(ctx)
	case "scrobble":
		if err := need(1); err != nil {
			return nil, err
		}
		return nil, a.lib.Scrobble(ctx, arg(0))
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

// radioQueue is what a player would enqueue for the station list.
func radioQueue(stations []domain.RadioStation) []domain.Track {
	out := make([]domain.Track, len(stations))
	for i, st := range stations {
		out[i] = st.AsTrack()
	}
	return out
}

func errUsage(cmd string) error {
	return fmt.Errorf("wrong arguments for %q; see --help", cmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
