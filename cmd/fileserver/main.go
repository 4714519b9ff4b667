package main

import (
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/trueabc/go/tools/dwrs/internal/fileserver"
)

func main() {
	app := &cli.App{
		Name:  "fileserver",
		Usage: "serve a directory for trying out dwrs",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "dir",
				Value: ".",
				Usage: "directory to share",
			},
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "listen address",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Value: "/staticfile/",
				Usage: "URL path the directory is served under",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause before every chunk of a response body",
			},
			&cli.IntFlag{
				Name:  "chunk",
				Value: fileserver.DefaultChunk,
				Usage: "chunk size in bytes used with --delay",
			},
		},
		Action: func(c *cli.Context) error {
			logger := log.New(os.Stderr, "fileserver: ", log.LstdFlags)
			srv := fileserver.New(fileserver.Options{
				Dir:    c.Path("dir"),
				Prefix: c.String("prefix"),
				Delay:  c.Duration("delay"),
				Chunk:  c.Int("chunk"),
				Logger: logger,
			})

			mux := http.NewServeMux()
			mux.Handle(c.String("prefix"), srv)
			logger.Printf("serving %s at %s%s", c.Path("dir"), c.String("addr"), c.String("prefix"))
			return http.ListenAndServe(c.String("addr"), mux)
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
