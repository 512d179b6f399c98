package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/golang/glog"

	fx "github.com/robotalks/wcan/pkg/framework"
	"github.com/robotalks/wcan/pkg/radio/packet/websocket"
)

var (
	listenAddr = ":8080"
	path       = "/air"
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listening address.")
	flag.StringVar(&path, "path", path, "WebSocket path.")
}

func main() {
	flag.Parse()

	relay := websocket.NewRelay()
	mux := http.NewServeMux()
	mux.Handle(path, relay.Handler())
	server := &http.Server{Addr: listenAddr, Handler: mux}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("relay", fx.RunFunc(func(ctx context.Context) error {
		glog.Infof("relay listening on %s%s", listenAddr, path)
		return fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
	})))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
