//go:build integration
// +build integration

package scripts

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/drafty-mcp/drafty/config"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway"
	"github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/tools"

	"github.com/rs/zerolog"
)

func must(err error, msg string) {
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
}

// RunSmokeDrafty lists posts against the live Drafty API. It only reads.
func RunSmokeDrafty() {
	fmt.Println("Smoke test: Drafty integrations API")

	cfg, err := config.LoadConfig("")
	must(err, "load config")
	must(cfg.Validate(), "validate config")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	dispatcher, err := gateway.NewFactory(cfg, logger).CreateDispatcher()
	must(err, "create dispatcher")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := dispatcher.Handle(ctx, tools.ListPostsName, map[string]any{"limit": 1})
	if env.IsError {
		log.Fatalf("list_posts failed: %s", env.Text())
	}
	if strings.Contains(env.Text(), cfg.Drafty.APIKey) {
		log.Fatalf("credential leaked into output")
	}
	fmt.Println("OK: list_posts")
	fmt.Println(env.Text())

	env = dispatcher.Handle(ctx, "delete_post", nil)
	if !env.IsError || env.Text() != gateway.ErrorPrefix+"Unknown tool: delete_post" {
		log.Fatalf("unexpected envelope for unknown tool: %+v", env)
	}
	fmt.Println("OK: unknown tool rejected")
}
