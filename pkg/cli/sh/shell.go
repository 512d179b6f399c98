package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/wcan/pkg/demo"
	"github.com/robotalks/wcan/pkg/env"
	"github.com/robotalks/wcan/pkg/wcan"
)

// Shell provides ishell backed interactive shell on a node.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Node   *wcan.Node

	cancel  func()
	results chan wcan.Result
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&SendCmd,
		&StatsCmd,
		&InfoCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:   ishell.New(),
		Config:  conf,
		results: make(chan wcan.Result, 16),
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Start creates the node and runs it in background.
func (s *Shell) Start() error {
	node, err := s.Config.NewNode(wcan.HandleMessageFunc(s.handleMessage))
	if err != nil {
		return err
	}
	node.OnResult(wcan.HandleResultFunc(s.handleResult))
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.Node = node
	go func() {
		if err := node.Run(ctx); err != nil {
			s.Shell.Printf("node stopped: %v\n", err)
		}
	}()
	if addr, ok := node.LocalAddress(); ok {
		s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", addr))
	}
	return nil
}

// Stop stops the node.
func (s *Shell) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Send submits a message and waits for its result.
func (s *Shell) Send(id uint16, payload []byte) (wcan.Result, error) {
	for drained := false; !drained; {
		select {
		case <-s.results:
		default:
			drained = true
		}
	}
	if err := s.Node.Submit(context.Background(), id, payload); err != nil {
		return wcan.Result{}, err
	}
	sender := s.Node.Sender
	timeout := sender.SubmitTimeout + time.Duration(sender.MaxRetry+2)*sender.RetryPeriod
	deadline := time.After(timeout)
	for {
		select {
		case res := <-s.results:
			if res.Message.ID == id {
				return res, nil
			}
		case <-deadline:
			return wcan.Result{}, context.DeadlineExceeded
		}
	}
}

func (s *Shell) handleMessage(_ context.Context, msg *wcan.Message) {
	if s.OutputJSON {
		out, _ := json.Marshal(map[string]interface{}{
			"from":    msg.Addr.String(),
			"id":      msg.ID,
			"payload": hex.EncodeToString(msg.Payload),
		})
		s.Shell.Println(string(out))
		return
	}
	s.Shell.Printf("%04x from %s: %s\n", msg.ID, msg.Addr, demo.Format(msg.ID, msg.Payload))
}

func (s *Shell) handleResult(r wcan.Result) {
	select {
	case s.results <- r:
	default:
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if err := s.Start(); err != nil {
		log.Fatalln(err)
	}
	defer s.Stop()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// ParsePayload builds a payload from TYPE and VALUE arguments.
func ParsePayload(typ string, args []string) ([]byte, error) {
	val := strings.Join(args, " ")
	switch typ {
	case "float", "f":
		v, err := strconv.ParseFloat(val, 32)
		if err != nil {
			return nil, err
		}
		return demo.EncodeFloat(float32(v)), nil
	case "int", "i":
		v, err := strconv.ParseInt(val, 0, 32)
		if err != nil {
			return nil, err
		}
		return demo.EncodeInt(int32(v)), nil
	case "str", "s":
		return demo.EncodeString(val)
	case "hex", "x":
		return hex.DecodeString(strings.Join(args, ""))
	}
	return nil, fmt.Errorf("unknown type %q", typ)
}

var (
	// SendCmd broadcasts a message.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "ID float|int|str|hex VALUE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("ID TYPE VALUE expected"))
				return
			}
			ids, err := env.ParseIDs(c.Args[0])
			if err != nil || len(ids) != 1 {
				c.Err(fmt.Errorf("invalid id %q", c.Args[0]))
				return
			}
			payload, err := ParsePayload(c.Args[1], c.Args[2:])
			if err != nil {
				c.Err(err)
				return
			}
			res, err := ShellFrom(c).Send(ids[0], payload)
			if err != nil {
				c.Err(err)
				return
			}
			if res.Err != nil {
				c.Err(fmt.Errorf("%s: %v after %d attempts", res.Message, res.Err, res.Attempts))
				return
			}
			c.Printf("OK %s, %d attempts\n", res.Message, res.Attempts)
		},
	}

	// StatsCmd prints node counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			stats := s.Node.Stats.Snapshot()
			if s.OutputJSON {
				out, err := json.Marshal(stats)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			c.Printf("submitted:     %d\n", stats.Submitted)
			c.Printf("transmitted:   %d\n", stats.Transmitted)
			c.Printf("retransmitted: %d\n", stats.Retransmitted)
			c.Printf("acked:         %d\n", stats.Acked)
			c.Printf("exhausted:     %d\n", stats.Exhausted)
			c.Printf("received:      %d\n", stats.Received)
			c.Printf("filtered:      %d\n", stats.Filtered)
			c.Printf("dropped:       %d\n", stats.Dropped)
			c.Printf("ack failures:  %d\n", stats.AckFailures)
		},
	}

	// InfoCmd prints node information.
	InfoCmd = ishell.Cmd{
		Name: "info",
		Help: "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			addr, _ := s.Node.LocalAddress()
			filter := s.Node.Receiver.Filter
			c.Printf("address:  %s\n", addr)
			c.Printf("radio:    %s\n", s.Config.RadioURL)
			c.Printf("filter:   %v %s\n", filter.Enabled(), formatIDs(filter.IDs()))
			c.Printf("pending:  %d\n", s.Node.Sender.Pending())
			c.Printf("inflight: %v\n", s.Node.Sender.InFlight())
		},
	}
)

func formatIDs(ids []uint16) string {
	strs := make([]string, len(ids))
	for n, id := range ids {
		strs[n] = fmt.Sprintf("%04x", id)
	}
	return "[" + strings.Join(strs, " ") + "]"
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).Run(flag.Args()...)
}
