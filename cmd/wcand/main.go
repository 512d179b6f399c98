package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/wcan/pkg/demo"
	"github.com/robotalks/wcan/pkg/env"
	fx "github.com/robotalks/wcan/pkg/framework"
)

var (
	sensor   bool
	interval = demo.DefaultPublishInterval
)

func init() {
	env.SetupFlags()
	flag.BoolVar(&sensor, "sensor", sensor, "Publish demo sensor readings.")
	flag.DurationVar(&interval, "interval", interval, "Interval between readings.")
}

func main() {
	flag.Parse()

	handler := demo.LogHandler{}
	node := env.NewConfig().MustNewNode(handler)
	node.OnResult(handler)

	loop := fx.NewLoop().Add(node)
	if sensor {
		pub := demo.NewPublisher(node)
		pub.Interval = interval
		loop.Add(pub)
	}
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		log.Fatalln(err)
	}
}
