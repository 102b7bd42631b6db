// Command forum is a CLI client for the devsocial backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"devsocial/client"
	"devsocial/internal/models"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: forum [-addr URL] <command> [args]

commands:
  register <username> <email> <password>
  login <email> <password>
  logout
  me
  feed [query]
  show <post_id>
  post <title> <content>
  comment <post_id> <text>
  like <post_id>
  favorite <post_id>`)
	os.Exit(2)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	sess := client.NewSession(client.NewFileStorage("devsocial"))
	sess.Load()
	api := client.New(*addr, sess)
	cache := client.NewCache()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch cmd := args[0]; cmd {
	case "register":
		if len(args) != 4 {
			usage()
		}
		var user any
		user, err = api.Register(ctx, args[1], args[2], args[3])
		if err == nil {
			printJSON(user)
		}
	case "login":
		if len(args) != 3 {
			usage()
		}
		var user any
		user, err = api.Login(ctx, args[1], args[2])
		if err == nil {
			printJSON(user)
		}
	case "logout":
		sess.SignOut()
		fmt.Println("logged out")
	case "me":
		var user any
		user, err = api.Me(ctx)
		if err == nil {
			printJSON(user)
		}
	case "feed":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		var posts any
		posts, err = api.Feed(ctx, query, 50, 0)
		if err == nil {
			printJSON(posts)
		}
	case "show":
		if len(args) != 2 {
			usage()
		}
		err = showPost(ctx, api, args[1])
	case "post":
		if len(args) != 3 {
			usage()
		}
		var post any
		post, err = api.CreatePost(ctx, args[1], args[2], nil)
		if err == nil {
			printJSON(post)
		}
	case "comment":
		if len(args) != 3 {
			usage()
		}
		var comment any
		comment, err = api.AddComment(ctx, args[1], args[2])
		if err == nil {
			printJSON(comment)
		}
	case "like":
		if len(args) != 2 {
			usage()
		}
		var result any
		result, err = cache.Toggle(ctx, api, client.KindLike, args[1])
		if err == nil {
			printJSON(result)
		}
	case "favorite":
		if len(args) != 2 {
			usage()
		}
		var result any
		result, err = cache.Toggle(ctx, api, client.KindFavorite, args[1])
		if err == nil {
			printJSON(result)
		}
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// showPost prints a post with its comments and the caller's own
// like/favorite state when logged in.
func showPost(ctx context.Context, api *client.Client, postID string) error {
	post, err := api.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	printJSON(post)

	comments, err := api.Comments(ctx, postID)
	if err != nil {
		return err
	}
	if len(comments) > 0 {
		printJSON(comments)
	}

	// anonymous viewers still get the post; own state needs a session
	likes, err := api.MyLikes(ctx)
	if err != nil {
		return nil
	}
	favorites, err := api.MyFavorites(ctx)
	if err != nil {
		return nil
	}

	cache := client.NewCache()
	cache.Seed([]*models.Post{post}, likes, favorites)
	if cache.Liked(postID) {
		fmt.Println("you like this post")
	}
	if cache.Favorited(postID) {
		fmt.Println("you favorited this post")
	}
	return nil
}
