package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/wcan/pkg/demo"
	"github.com/robotalks/wcan/pkg/radio/packet"
	"github.com/robotalks/wcan/pkg/radio/packet/mqtt"
	"github.com/robotalks/wcan/pkg/wcan"
)

var (
	mqttURL = "mqtt://localhost:1883/wcan/"
)

func init() {
	if val := os.Getenv("WCAN_RADIO_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		env, err := packet.DecodeEnvelope(payload)
		if err != nil {
			log.Printf("%s: bad envelope: %v", topic, err)
			return
		}
		src, dst, err := env.Addresses()
		if err != nil {
			log.Printf("%s: bad envelope: %v", topic, err)
			return
		}
		msg, err := wcan.Decode(src, env.Data)
		if err != nil {
			log.Printf("%s: %s -> %s: bad frame [%s]: %v", topic, src, dst, wcan.Dump(env.Data), err)
			return
		}
		if id, ok := msg.AckedID(); ok {
			log.Printf("%s: %s -> %s: ACK %04x", topic, src, dst, id)
			return
		}
		log.Printf("%s: %s -> %s: %04x %s", topic, src, dst, msg.ID, demo.Format(msg.ID, msg.Payload))
	}))
	<-(chan struct{})(nil)
}
