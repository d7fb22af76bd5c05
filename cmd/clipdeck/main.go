package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/clipdeck/clipdeck/internal/api"
	"github.com/clipdeck/clipdeck/internal/app"
	"github.com/clipdeck/clipdeck/internal/feed"
	"github.com/clipdeck/clipdeck/internal/locale"
	"github.com/clipdeck/clipdeck/internal/platformtest"
	"github.com/clipdeck/clipdeck/internal/session"
	"github.com/clipdeck/clipdeck/internal/thumbnail"
	"github.com/clipdeck/clipdeck/internal/ui"
	"github.com/clipdeck/clipdeck/internal/upload"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if os.Args[1] == "devserver" {
		runDevServer(os.Args[2:])
		return
	}

	cli := newCLI()
	ctx := context.Background()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "login":
		err = cli.login(ctx, os.Args[2:])
	case "register":
		err = cli.register(ctx, os.Args[2:])
	case "logout":
		err = cli.logout(ctx)
	case "whoami":
		err = cli.whoami(ctx)
	case "upload":
		err = cli.upload(ctx, os.Args[2:])
	case "notifications":
		err = cli.notifications(ctx, os.Args[2:])
	case "channel":
		err = cli.channel(ctx)
	case "subs":
		err = cli.subscriptions(ctx)
	case "password":
		err = cli.password(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	cli.drainToasts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: clipdeck <command> [flags]

commands:
  login          sign in and store the session token
  register       create an account
  logout         end the session
  whoami         show the active account
  upload         upload a video with an auto-extracted thumbnail
  notifications  list notifications, mark them read
  channel        open (or create) your channel
  subs           open your subscriptions
  password       check strength or generate a password
  devserver      run a local stub of the platform API`)
}

// cli holds the wired component graph plus terminal rendering state.
type cli struct {
	client   *api.Client
	sessions *session.Manager
	toasts   *ui.ToastManager
	feed     *feed.Feed
	ctrl     *app.Controller

	printed map[int64]bool
}

func newCLI() *cli {
	apiURL := getEnv("CLIPDECK_API_URL", "http://localhost:5000")
	tokenFile := getEnv("CLIPDECK_TOKEN_FILE", defaultTokenPath())

	client := api.New(apiURL)
	sessions := session.NewManager(client, session.NewFileStore(tokenFile))
	toasts := ui.NewToastManager(ui.DefaultToastTTL)
	modals := ui.NewModalManager()
	pending := &thumbnail.Pending{}
	extractor := thumbnail.NewExtractor(
		getEnv("CLIPDECK_FFMPEG", "ffmpeg"),
		getEnv("CLIPDECK_FFPROBE", "ffprobe"),
	)
	flow := upload.New(client, sessions, pending, extractor)
	notifFeed := feed.New(client, sessions)

	c := &cli{
		client:   client,
		sessions: sessions,
		toasts:   toasts,
		feed:     notifFeed,
		printed:  make(map[int64]bool),
	}
	c.ctrl = app.New(app.Config{
		Client:    client,
		Sessions:  sessions,
		Toasts:    toasts,
		Modals:    modals,
		Feed:      notifFeed,
		Uploads:   flow,
		Pending:   pending,
		Extractor: extractor,
		Navigate:  func(path string) { fmt.Println(apiURL + path) },
		// The original delays reload so the toast stays visible; a
		// terminal keeps its output, so no pause is needed.
		ReloadDelay: time.Millisecond,
	})
	toasts.OnChange(func(active []ui.Toast) { c.renderToasts(active) })
	return c
}

func (c *cli) renderToasts(active []ui.Toast) {
	for _, t := range active {
		if c.printed[t.ID] {
			continue
		}
		c.printed[t.ID] = true
		fmt.Printf("[%s] %s\n", t.Severity, t.Message)
	}
}

// drainToasts flushes anything shown right before exit, since the TTL
// timers never get to fire.
func (c *cli) drainToasts() {
	c.renderToasts(c.toasts.Active())
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "clipdeck", "token")
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fs.Parse(args)
	if *username == "" || *password == "" {
		return errors.New("login: -u and -p are required")
	}
	return c.ctrl.Login(ctx, *username, *password)
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	displayName := fs.String("name", "", "display name")
	fs.Parse(args)
	if *confirm == "" {
		*confirm = *password
	}
	return c.ctrl.Register(ctx, app.RegisterForm{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		PasswordConfirm: *confirm,
		DisplayName:     *displayName,
	})
}

func (c *cli) logout(ctx context.Context) error {
	c.sessions.Restore(ctx)
	c.ctrl.Logout(ctx)
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	s := c.sessions.Restore(ctx)
	if !s.Authenticated() {
		return errors.New(locale.T(locale.LoginRequired))
	}
	fmt.Printf("%s (%s)\n", s.User.DisplayName, s.User.Tag)
	return nil
}

func (c *cli) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "video file")
	title := fs.String("title", "", "video title")
	description := fs.String("desc", "", "description")
	thumb := fs.String("thumbnail", "", "thumbnail image (skips auto extraction)")
	category := fs.String("category", "other", "category")
	tags := fs.String("tags", "", "comma-separated tags")
	access := fs.String("access", "public", "access level")
	fs.Parse(args)
	if *file == "" || *title == "" {
		return errors.New("upload: -file and -title are required")
	}

	c.sessions.Restore(ctx)
	if preview := c.ctrl.VideoSelected(ctx, *file, *thumb != ""); preview != nil {
		fmt.Printf("auto thumbnail extracted (%d byte preview)\n", len(preview))
	}
	if *thumb != "" {
		c.ctrl.ThumbnailSelected()
	}

	form := upload.Form{
		VideoPath:     *file,
		ThumbnailPath: *thumb,
		Title:         *title,
		Description:   *description,
		AccessLevel:   *access,
		Category:      *category,
		Tags:          *tags,
	}
	return c.ctrl.Upload(ctx, form, func(percent int) {
		fmt.Printf("\r%s", locale.UploadProgress(percent))
		if percent >= 100 {
			fmt.Println()
		}
	})
}

func (c *cli) notifications(ctx context.Context, args []string) error {
	c.sessions.Restore(ctx)

	if len(args) > 0 {
		switch args[0] {
		case "read":
			if len(args) < 2 {
				return errors.New("notifications read: id is required")
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("notifications read: bad id %q", args[1])
			}
			c.ctrl.MarkNotificationRead(ctx, id)
			return nil
		case "read-all":
			c.ctrl.MarkAllNotificationsRead(ctx)
			return nil
		default:
			return fmt.Errorf("notifications: unknown subcommand %q", args[0])
		}
	}

	entries, _, err := c.ctrl.ToggleNotificationPanel(ctx)
	if err != nil {
		return err
	}
	if badge, visible := c.ctrl.Badge(); visible {
		fmt.Printf("unread: %s\n", badge)
	}
	if len(entries) == 0 {
		fmt.Println(locale.T(locale.NoNotifications))
		return nil
	}
	for _, e := range entries {
		marker := " "
		if e.Unread {
			marker = "*"
		}
		fmt.Printf("%s %6d  %s  %s\n", marker, e.ID, e.Time, e.Content)
	}
	return nil
}

func (c *cli) channel(ctx context.Context) error {
	c.sessions.Restore(ctx)
	c.ctrl.ShowMyChannel(ctx)
	return nil
}

func (c *cli) subscriptions(ctx context.Context) error {
	c.sessions.Restore(ctx)
	c.ctrl.ShowSubscriptions(ctx)
	return nil
}

func (c *cli) password(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("password", flag.ExitOnError)
	check := fs.String("check", "", "password to score")
	generate := fs.Bool("generate", false, "generate a strong password")
	fs.Parse(args)

	if *generate {
		pwd, indicator, err := c.ctrl.GeneratePassword(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", pwd, indicator.Label)
		return nil
	}
	if *check == "" {
		return errors.New("password: -check or -generate is required")
	}
	indicator, err := c.ctrl.CheckPasswordStrength(ctx, *check)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d%%, %s)\n", indicator.Label, indicator.Width, indicator.Color)
	return nil
}

func runDevServer(args []string) {
	fs := flag.NewFlagSet("devserver", flag.ExitOnError)
	port := fs.String("port", getEnv("PORT", "5000"), "listen port")
	fs.Parse(args)

	stub := platformtest.New()
	demo := stub.AddUser("demo", "demo123", false)
	stub.AddNotification("demo", "Добро пожаловать в ClipDeck!", false, "")
	log.Printf("seeded user %s (password demo123)", demo.Tag)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", *port),
		Handler:           stub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("clipdeck devserver listening on :%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	log.Println("shutdown complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
