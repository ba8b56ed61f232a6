package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/dailypush/dailypush-go/pkg/service"
	"github.com/dailypush/dailypush-go/pkg/topic"
)

// syncTimeout bounds a forced reconciliation from the shell.
const syncTimeout = 30 * time.Second

// shell is the interactive command loop for dailypush.
type shell struct {
	svc *service.Service
	rl  *readline.Instance
}

// newShell creates the interactive handler for svc.
func newShell(svc *service.Service) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dailypush> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &shell{svc: svc, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (sh *shell) Stdout() io.Writer {
	return sh.rl.Stdout()
}

// Run starts the interactive command loop and blocks until the user
// exits.
func (sh *shell) Run() {
	defer sh.rl.Close()

	sh.printHelp()

	for {
		line, err := sh.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			sh.printHelp()

		case "status", "s":
			sh.cmdStatus()

		case "hour", "h":
			sh.cmdHour(args)

		case "on":
			sh.cmdSubscribed(true)

		case "off":
			sh.cmdSubscribed(false)

		case "sync":
			sh.cmdSync()

		case "topics":
			sh.cmdTopics()

		case "quit", "exit", "q":
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(sh.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.rl.Stdout(), `
Daily Push Commands:
  Preferences:
    status             - Show subscription state and desired topic
    hour <0-23>        - Set the local delivery hour
    on                 - Enable daily delivery
    off                - Disable daily delivery

  Broker:
    sync               - Force a full reconciliation now
    topics             - List the topic universe for this prefix

  General:
    help               - Show this help
    quit               - Exit`)
}

func (sh *shell) cmdStatus() {
	st, err := sh.svc.Status()
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}

	state := "off"
	if st.Subscribed {
		state = "on"
	}
	fmt.Fprintf(sh.rl.Stdout(), "Delivery:   %s\n", state)
	fmt.Fprintf(sh.rl.Stdout(), "Hour:       %02d:00 local\n", st.Hour)
	fmt.Fprintf(sh.rl.Stdout(), "UTC offset: %+d min\n", st.UTCOffsetMin)
	fmt.Fprintf(sh.rl.Stdout(), "Topic:      %s\n", st.DesiredTopic)
}

func (sh *shell) cmdHour(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.rl.Stdout(), "Usage: hour <0-23>")
		return
	}

	hour, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Invalid hour: %s\n", args[0])
		return
	}
	if err := sh.svc.SetDeliveryHour(hour); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(sh.rl.Stdout(), "Delivery hour set to %02d:00, syncing in background\n", hour)
}

func (sh *shell) cmdSubscribed(subscribed bool) {
	if err := sh.svc.SetSubscribed(subscribed); err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if subscribed {
		fmt.Fprintln(sh.rl.Stdout(), "Daily delivery enabled, syncing in background")
	} else {
		fmt.Fprintln(sh.rl.Stdout(), "Daily delivery disabled, syncing in background")
	}
}

func (sh *shell) cmdSync() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	ran, err := sh.svc.Resync(ctx)
	if err != nil {
		fmt.Fprintf(sh.rl.Stdout(), "Sync failed: %v\n", err)
		return
	}
	if !ran {
		fmt.Fprintln(sh.rl.Stdout(), "Sync superseded by a newer attempt")
		return
	}
	fmt.Fprintln(sh.rl.Stdout(), "Sync complete")
}

func (sh *shell) cmdTopics() {
	universe := sh.svc.Topics()
	for hour := topic.MinHour; hour <= topic.MaxHour; hour++ {
		fmt.Fprintf(sh.rl.Stdout(), "%s  %s\n", universe[hour*2], universe[hour*2+1])
	}
}
