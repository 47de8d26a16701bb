package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/d60-Lab/zenith/config"
	"github.com/d60-Lab/zenith/internal/browse"
	"github.com/d60-Lab/zenith/internal/client"
	"github.com/d60-Lab/zenith/internal/model"
	"github.com/d60-Lab/zenith/pkg/auth"
)

const usage = `usage: zenithctl [-server url] [-token jwt] [-prefs file] <command> [args]

commands:
  list [-q query] [-sort createdAt|title|category|readTime] [-dir asc|desc] [-fav]
  get <id>
  create -title T -content C [-category K]
  update <id> [-title T] [-category K] [-content C]
  delete <id>
  fav <id>
  theme dark|light
  products
  token [-subject name] [-ttl 24h]
`

// app 一次命令执行需要的上下文
type app struct {
	out       io.Writer
	api       *client.Client
	prefsPath string
	state     *browse.State
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "zenithctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("zenithctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.String("server", envOr("ZENITH_SERVER", "http://localhost:3000"), "API base url")
	token := fs.String("token", os.Getenv("ZENITH_TOKEN"), "bearer token for write commands")
	prefsPath := fs.String("prefs", "", "prefs file (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}

	if *prefsPath == "" {
		p, err := browse.DefaultPrefsPath()
		if err != nil {
			return err
		}
		*prefsPath = p
	}
	prefs, err := browse.LoadPrefs(*prefsPath)
	if err != nil {
		return err
	}
	state := browse.NewState()
	prefs.Apply(state)

	a := &app{
		out:       out,
		api:       client.New(*server, client.WithToken(*token)),
		prefsPath: *prefsPath,
		state:     state,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		return a.list(ctx, rest)
	case "get":
		return a.get(ctx, rest)
	case "create":
		return a.create(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "fav":
		return a.fav(rest)
	case "theme":
		return a.theme(rest)
	case "products":
		return a.products(ctx)
	case "token":
		return a.token(rest)
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (a *app) savePrefs() error {
	return browse.SavePrefs(a.prefsPath, browse.PrefsOf(a.state))
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	q := fs.String("q", "", "filter by title, category or content")
	sortBy := fs.String("sort", "", "sort key")
	dir := fs.String("dir", "desc", "asc or desc")
	favOnly := fs.Bool("fav", false, "only favorites")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sortBy != "" {
		key, err := browse.ParseSortKey(*sortBy)
		if err != nil {
			return err
		}
		// 排序字段属于持久化偏好
		a.state.SortBy = key
		if err := a.savePrefs(); err != nil {
			return err
		}
	}
	d, err := browse.ParseSortDir(*dir)
	if err != nil {
		return err
	}
	a.state.SortDir = d
	a.state.Query = *q

	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		return err
	}
	a.state.Posts = posts
	if *favOnly {
		a.state.Posts = browse.FavoritePosts(a.state)
	}

	view := browse.View(a.state)
	if len(view) == 0 {
		fmt.Fprintln(a.out, "No stories yet")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDATE\tREAD\t")
	for _, p := range view {
		mark := ""
		if a.state.IsFavorite(p.ID) {
			mark = "★ "
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t%d min\t\n",
			p.ID, mark, browse.Excerpt(p.Title, 40), p.Category,
			p.CreatedAt.Local().Format("Jan 2, 2006"), browse.ReadTime(p.Content))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d post%s\n", len(view), plural(len(view)))
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func oneID(args []string) (string, error) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("missing post id")
	}
	return args[0], nil
}

func (a *app) get(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	p, err := a.api.GetPost(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		return errors.New("post not found")
	}
	if err != nil {
		return err
	}
	printPost(a.out, p)
	return nil
}

func printPost(w io.Writer, p *model.Post) {
	fmt.Fprintf(w, "%s\n[%s] %s · %d min read\n\n%s\n",
		p.Title, p.Category, p.CreatedAt.Local().Format("January 2, 2006"), browse.ReadTime(p.Content), p.Content)
}

// postFlags create 与 update 共用；未出现的 flag 保持 nil
func postFlags(name string, args []string) (client.PostInput, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "title")
	category := fs.String("category", "", "category")
	content := fs.String("content", "", "content")
	if err := fs.Parse(args); err != nil {
		return client.PostInput{}, nil, err
	}
	var in client.PostInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			in.Title = title
		case "category":
			in.Category = category
		case "content":
			in.Content = content
		}
	})
	return in, fs.Args(), nil
}

func (a *app) create(ctx context.Context, args []string) error {
	in, _, err := postFlags("create", args)
	if err != nil {
		return err
	}
	p, err := a.api.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Post published: %s\n", p.ID)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	in, _, err := postFlags("update", args[1:])
	if err != nil {
		return err
	}
	p, err := a.api.UpdatePost(ctx, id, in)
	if errors.Is(err, client.ErrNotFound) {
		return errors.New("post not found")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Post updated: %s\n", p.ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	err = a.api.DeletePost(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		return errors.New("post not found")
	}
	if err != nil {
		return err
	}
	a.state.RemovePost(id)
	if err := a.savePrefs(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post deleted successfully")
	return nil
}

func (a *app) fav(args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	on := a.state.ToggleFavorite(id)
	if err := a.savePrefs(); err != nil {
		return err
	}
	if on {
		fmt.Fprintf(a.out, "Added %s to favorites\n", id)
	} else {
		fmt.Fprintf(a.out, "Removed %s from favorites\n", id)
	}
	return nil
}

func (a *app) theme(args []string) error {
	if len(args) != 1 || (args[0] != browse.ThemeDark && args[0] != browse.ThemeLight) {
		return errors.New("theme must be dark or light")
	}
	a.state.Theme = args[0]
	if err := a.savePrefs(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Theme set to %s\n", args[0])
	return nil
}

func (a *app) products(ctx context.Context) error {
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\t")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return tw.Flush()
}

// token 用服务端同一份配置里的密钥签发编辑 token
func (a *app) token(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subject := fs.String("subject", "editor", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not configured")
	}
	tok, err := auth.GenerateToken(cfg.Auth.JWTSecret, *subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}
