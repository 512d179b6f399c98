package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/wcan/pkg/demo"
	"github.com/robotalks/wcan/pkg/env"
	fx "github.com/robotalks/wcan/pkg/framework"
	"github.com/robotalks/wcan/pkg/radio/sim"
	"github.com/robotalks/wcan/pkg/wcan"
)

var (
	numNodes = 3
	lossRate = 0.1
	duration = 10 * time.Second
	interval = 200 * time.Millisecond
)

func init() {
	env.SetupFlags()
	flag.IntVar(&numNodes, "nodes", numNodes, "Number of nodes.")
	flag.Float64Var(&lossRate, "loss", lossRate, "Probability a frame is lost.")
	flag.DurationVar(&duration, "duration", duration, "Simulation duration.")
	flag.DurationVar(&interval, "interval", interval, "Interval between readings of each node.")
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig().NodeConfig()
	if err != nil {
		log.Fatalln(err)
	}

	air := sim.NewAir()
	air.Drop = func(src, dst wcan.Address, frame []byte) bool {
		return rand.Float64() < lossRate
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(duration, cancel)
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	nodes := make([]*wcan.Node, numNodes)
	for n := range nodes {
		addr := env.AddressFromID([]byte{0, 0, 0, 0, 0, byte(n + 1)})
		handler := demo.LogHandler{}
		node, err := wcan.NewNode(conf, air.Join(addr), handler)
		if err != nil {
			log.Fatalln(err)
		}
		node.OnResult(handler)
		pub := demo.NewPublisher(node)
		pub.Interval = interval
		loop := fx.NewLoop().Add(node, pub)
		runner.Go(fx.NamedRun(addr.String(), loop))
		nodes[n] = node
	}
	glog.Infof("simulating %d nodes, loss rate %v", numNodes, lossRate)
	if err := runner.Wait(); err != nil {
		log.Println(err)
	}

	for _, node := range nodes {
		addr, _ := node.LocalAddress()
		out, err := json.Marshal(node.Stats.Snapshot())
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%s %s\n", addr, out)
	}
}
